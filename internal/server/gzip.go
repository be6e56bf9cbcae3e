package server

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strings"
)

// gzipMiddleware compresses responses at or above minBytes for clients
// that accept gzip. Responses are buffered to apply the size threshold.
func gzipMiddleware(next http.Handler, minBytes int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferingWriter{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(rec, r)

		for k, vs := range rec.header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}

		if rec.body.Len() < minBytes {
			w.WriteHeader(rec.status)
			_, _ = w.Write(rec.body.Bytes())
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		w.WriteHeader(rec.status)

		gz := gzip.NewWriter(w)
		_, _ = gz.Write(rec.body.Bytes())
		_ = gz.Close()
	})
}

// bufferingWriter captures a response so the middleware can decide
// whether compressing it is worthwhile
type bufferingWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (b *bufferingWriter) Header() http.Header {
	return b.header
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferingWriter) WriteHeader(status int) {
	b.status = status
}
