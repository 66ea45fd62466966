package auth

import (
	"net/http"
	"strings"

	"github.com/smart-inventory/inventory/internal/platform/httpx"
	"github.com/smart-inventory/inventory/internal/shared"
)

// RequireToken guards /api routes with the bearer token. Login, health and
// read-only report routes stay public.
func (s *Service) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r) {
			next.ServeHTTP(w, r)
			return
		}
		if !s.VerifyToken(bearerToken(r)) {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := shared.ContextWithActor(r.Context(), s.Actor())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isPublic(r *http.Request) bool {
	path := r.URL.Path
	if !strings.HasPrefix(path, "/api") {
		return true
	}
	switch path {
	case "/api/login", "/api/health":
		return true
	}
	return r.Method == http.MethodGet && strings.HasPrefix(path, "/api/reports")
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
