package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.InfoContext(r.Context(), "Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"requestID", middleware.GetReqID(r.Context()),
			"remoteAddr", r.RemoteAddr,
			"duration", time.Since(start))
	})
}

// rateLimit allows one load action per client per configured interval.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)

		if delay := s.limiter.Reserve(client); delay > 0 {
			seconds := int((delay + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(seconds))

			s.log.DebugContext(r.Context(), "Rate limiting request",
				"client", client,
				"delay", delay)

			s.respondError(w, http.StatusTooManyRequests, errorResponse{
				Error: "Too many requests, try again in " + strconv.Itoa(seconds) + "s.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
