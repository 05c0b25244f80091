package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/juryboard/pkg/metrics"
)

// errorClass is the metric label pair recorded for a failed response.
type errorClass struct {
	kind     string
	severity string
}

// statusClasses covers the statuses the handlers produce on purpose.
var statusClasses = map[int]errorClass{
	http.StatusBadRequest:            {kind: "rejected_batch", severity: "medium"},
	http.StatusNotFound:              {kind: "not_found", severity: "low"},
	http.StatusMethodNotAllowed:      {kind: "method_not_allowed", severity: "low"},
	http.StatusRequestEntityTooLarge: {kind: "payload_too_large", severity: "medium"},
	http.StatusServiceUnavailable:    {kind: "cancelled", severity: "medium"},
}

func classifyStatus(code int) (errorClass, bool) {
	if code < http.StatusBadRequest {
		return errorClass{}, false
	}
	if c, ok := statusClasses[code]; ok {
		return c, true
	}
	if code >= http.StatusInternalServerError {
		return errorClass{kind: "server_error", severity: "high"}, true
	}
	return errorClass{kind: "client_error", severity: "medium"}, true
}

// MetricsMiddleware records request count, latency and error class for
// endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))

		if c, failed := classifyStatus(rec.status); failed {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, c.kind)
			metrics.RecordErrorByType(c.kind, c.severity)
		}
	}
}

// statusRecorder remembers the first status written.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}
