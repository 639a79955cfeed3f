package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	})
}

func TestCacheControl_PolicyByRoute(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/restaurants/cuisines/popular", "public, max-age=600, must-revalidate"},
		{"/api/search", "public, max-age=120, must-revalidate"},
		{"/api/restaurants/abc", "public, max-age=300, must-revalidate"},
		{"/api/feed", "private, no-cache, must-revalidate"},
	}
	handler := CacheControl(okHandler("payload"))
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.want, rec.Header().Get("Cache-Control"), tc.path)
	}
}

func TestETag_RepeatRequestGets304(t *testing.T) {
	handler := ETag(okHandler(`{"message":"ok"}`))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
}

func TestETag_ErrorResponsesPassThroughUnhashed(t *testing.T) {
	handler := ETag(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"restaurant not found","data":null}`)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/restaurants/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), "restaurant not found")
}

func TestCompression_GzipsWhenAccepted(t *testing.T) {
	handler := Compression(okHandler("compress me"))

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	reader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "compress me", string(body))
}

func TestCORSMiddleware_AnswersPreflight(t *testing.T) {
	handler := CORSMiddleware(okHandler("never reached"))

	req := httptest.NewRequest(http.MethodOptions, "/api/feed", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Empty(t, rec.Body.String())
}

func TestCORSMiddleware_RestrictsToConfiguredOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")
	handler := CORSMiddleware(okHandler("ok"))

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
