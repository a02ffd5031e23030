package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{"": LevelOff, "off": LevelOff, "error": LevelError, "info": LevelInfo, "debug": LevelDebug, "loud": LevelInfo}
	for in, want := range cases {
		if got := parseLevel(in); got != want { t.Fatalf("parseLevel(%q)=%d want %d", in, got, want) }
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	SetDefaultLogLevel("error")
	defer SetDefaultLogLevel("off")
	r := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	if requestLogLevel(r) != LevelError { t.Fatalf("default not used") }
	r.Header.Set("X-Log-Level", "info")
	if requestLogLevel(r) != LevelInfo { t.Fatalf("header override ignored") }
	r = httptest.NewRequest(http.MethodGet, "/api/session?log=1", nil)
	r.Header.Set("X-Log-Level", "off")
	if requestLogLevel(r) != LevelDebug { t.Fatalf("query must win over header") }
}

func TestLogEnd_WritesStructuredFailure(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()
	r := httptest.NewRequest(http.MethodPost, "/api/foods", nil)
	logEnd(r, LevelError, "foods", http.StatusServiceUnavailable, time.Now(), "", errors.New("all models overloaded"))
	out := buf.String()
	if !strings.Contains(out, `"status":503`) || !strings.Contains(out, "foods end") || !strings.Contains(out, "all models overloaded") {
		t.Fatalf("log=%s", out)
	}
	buf.Reset()
	logEnd(r, LevelError, "foods", http.StatusOK, time.Now(), "m", nil)
	if buf.Len() != 0 { t.Fatalf("success must not log at error level: %s", buf.String()) }
}
