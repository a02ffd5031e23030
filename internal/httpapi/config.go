package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum JSON request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// maxUploadBytes bounds the image accepted by /api/analyze.
var maxUploadBytes int64 = 10 << 20

// SetMaxUploadBytes configures the maximum image size (default 10 MiB).
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = 10 << 20
		return
	}
	maxUploadBytes = n
}

// requestTimeout caps a single analysis or follow-up, backoff included.
// Zero means no additional timeout beyond server/connection timeouts.
var requestTimeout time.Duration

// SetRequestTimeout sets the per-request upstream timeout (0 disables).
func SetRequestTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	requestTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// staticDir is an optional SPA build served at "/".
var staticDir string

// SetStaticDir serves files from dir for any non-API GET (empty disables).
func SetStaticDir(dir string) { staticDir = dir }
