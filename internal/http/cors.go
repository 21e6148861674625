package http

import (
	"net/http"
	"os"
	"strings"
)

// CORSMiddleware adds CORS headers so the browser form can call the API.
// ALLOWED_ORIGINS narrows access; the default is wide open, matching the
// legacy service.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, allowedOrigin := range strings.Split(allowedOrigins, ",") {
				allowedOrigin = strings.TrimSpace(allowedOrigin)
				if allowedOrigin == "*" {
					w.Header().Set("Access-Control-Allow-Origin", "*")
					break
				}
				if allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
