package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds handler run time. Expired requests get a 503 carrying the
// standard error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(errorEnvelope("REQUEST_TIMEOUT", "Request timed out"))

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
