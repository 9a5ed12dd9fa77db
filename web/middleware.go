package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-Id"

type contextKey int

const loggerKey contextKey = 0

// loggerFor returns the request-scoped logger installed by withLogging, or the
// standard logger if there is none.
func loggerFor(r *http.Request) *log.Entry {
	if entry, ok := r.Context().Value(loggerKey).(*log.Entry); ok {
		return entry
	}
	return log.NewEntry(log.StandardLogger())
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// withLogging tags each request with an id (the client's, if it sent one) and
// logs one line per request once the response is written.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		logger := log.WithFields(log.Fields{
			"req_id": id,
			"method": r.Method,
			"path":   r.URL.Path,
		})
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), loggerKey, logger)))
		logger.WithFields(log.Fields{
			"status":      sw.status,
			"size":        sw.size,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Served")
	})
}
