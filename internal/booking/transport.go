package booking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// roundTripperFunc lets a plain function act as an http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func withTransport(next http.RoundTripper, userAgent string, logger *slog.Logger) http.RoundTripper {
	return defaultHeaders(requestLogger(next, logger), userAgent)
}

// defaultHeaders stamps every outgoing request with the headers the
// booking service expects. Headers already set by the caller win.
func defaultHeaders(next http.RoundTripper, userAgent string) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		r = r.Clone(r.Context())
		setDefault(r.Header, "Accept", "application/json")
		setDefault(r.Header, "User-Agent", userAgent)
		setDefault(r.Header, "X-Request-ID", uuid.NewString())
		return next.RoundTrip(r)
	})
}

func setDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

func requestLogger(next http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start).Round(time.Microsecond),
		}
		if err != nil {
			logger.Debug("booking request", append(attrs, "error", err)...)
			return nil, err
		}
		logger.Debug("booking request", append(attrs, "status", resp.StatusCode)...)
		return resp, nil
	})
}
