package httpinterface

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{w, http.StatusOK}

		next.ServeHTTP(rec, req)

		log.WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("http: request served")
	})
}

// withRateLimit caps the overall number of requests served per second.
// Requests exceeding the rate are delayed rather than rejected.
func withRateLimit(next http.Handler, requestsPerSecond int) http.Handler {
	if requestsPerSecond <= 0 {
		return next
	}

	limiter := ratelimit.New(requestsPerSecond)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		limiter.Take()
		next.ServeHTTP(w, req)
	})
}
