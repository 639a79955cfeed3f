package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

// ResponseOptimization is the outbound chain applied to every route:
// cache policy headers, conditional ETag responses, gzip.
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(ETag(Compression(next)))
}

// cachePolicy pairs a path predicate with the Cache-Control value its
// responses carry. First match wins.
type cachePolicy struct {
	matches func(path string) bool
	header  string
}

// Popularity aggregates shift slowly, search suggestions quickly, the
// feed is personal and never shared.
var cachePolicies = []cachePolicy{
	{
		matches: func(path string) bool { return strings.Contains(path, "popular") },
		header:  "public, max-age=600, must-revalidate",
	},
	{
		matches: func(path string) bool { return strings.HasPrefix(path, "/api/search") },
		header:  "public, max-age=120, must-revalidate",
	},
	{
		matches: func(path string) bool { return strings.HasPrefix(path, "/api/restaurants/") },
		header:  "public, max-age=300, must-revalidate",
	},
}

// CacheControl stamps the matching cache policy onto each response
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := "private, no-cache, must-revalidate"
		for _, policy := range cachePolicies {
			if policy.matches(r.URL.Path) {
				header = policy.header
				break
			}
		}
		w.Header().Set("Cache-Control", header)
		next.ServeHTTP(w, r)
	})
}

// ETag answers GET and HEAD requests with 304 Not Modified when the
// client already holds the current response body.
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferedResponse{ResponseWriter: w, body: &bytes.Buffer{}}
		next.ServeHTTP(rec, r)

		if rec.status != 0 && rec.status != http.StatusOK {
			w.WriteHeader(rec.status)
			w.Write(rec.body.Bytes())
			return
		}

		sum := sha256.Sum256(rec.body.Bytes())
		etag := `"` + hex.EncodeToString(sum[:16]) + `"`
		w.Header().Set("ETag", etag)

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if rec.status > 0 {
			w.WriteHeader(rec.status)
		}
		w.Write(rec.body.Bytes())
	})
}

// bufferedResponse captures the body so ETag can hash it before
// anything reaches the client
type bufferedResponse struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *bufferedResponse) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *bufferedResponse) WriteHeader(status int) {
	r.status = status
}

// Compression gzips the response for clients that accept it
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w)
		defer gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, writer: gz}, r)
	})
}

// Level 5 trades a little ratio for speed on hot feed responses
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}
