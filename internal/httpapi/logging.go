package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel is read once; SetDefaultLogLevel overrides it.
var defaultLogLevel = parseLevel(os.Getenv("SMARTDERM_HTTP_LOG"))

// SetDefaultLogLevel sets the level used when a request carries no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logStart records the beginning of an upstream-backed request.
func logStart(r *http.Request, lvl LogLevel, op, session string) {
	if lvl < LevelInfo {
		return
	}
	if zlog == nil {
		log.Printf("%s start path=%s session=%s", op, r.URL.Path, session)
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("session", session)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(op + " start")
}

// logEnd records the outcome. Failures are logged from LevelError up.
func logEnd(r *http.Request, lvl LogLevel, op string, status int, start time.Time, model string, err error) {
	if lvl < LevelInfo && (err == nil || lvl < LevelError) {
		return
	}
	if zlog == nil {
		log.Printf("%s end status=%d model=%s dur=%s err=%v", op, status, model, time.Since(start), err)
		return
	}
	z := zlog.Info()
	if err != nil {
		z = zlog.Warn().Err(err)
	}
	z = z.Int("status", status).Dur("dur", time.Since(start))
	if model != "" {
		z = z.Str("model", model)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(op + " end")
}
