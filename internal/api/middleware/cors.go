package middleware

import (
	"net/http"
	"os"
	"strings"
)

// allowedOriginSet reads ALLOWED_ORIGINS (comma separated) once at
// middleware construction. An empty variable allows every origin,
// which is only appropriate outside production.
type allowedOriginSet struct {
	wildcard bool
	origins  map[string]struct{}
}

func loadAllowedOrigins() allowedOriginSet {
	raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	if raw == "" {
		return allowedOriginSet{wildcard: true}
	}

	set := allowedOriginSet{origins: make(map[string]struct{})}
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			set.wildcard = true
			continue
		}
		if origin != "" {
			set.origins[origin] = struct{}{}
		}
	}
	return set
}

// CORSMiddleware adds CORS headers and answers preflight requests
func CORSMiddleware(next http.Handler) http.Handler {
	allowed := loadAllowedOrigins()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			switch {
			case allowed.wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			default:
				if _, ok := allowed.origins[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
