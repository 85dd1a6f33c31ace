package middleware

import (
	"log"
	"net/http"
	"time"
)

type responseMeta struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseMeta) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseMeta) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// Logger writes one line per request: method, path, status, response size,
// duration, and the caller address.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rm := &responseMeta{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rm, r)
		log.Printf("%s %s %d %dB %s %s",
			r.Method, r.URL.Path, rm.status, rm.bytes,
			time.Since(start).Round(time.Millisecond), r.RemoteAddr)
	})
}
