package auth

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/emberhollow/shop-api/internal/modules/audit"
)

// RequireAdmin guards back-office routes. It accepts a Bearer token
// issued by Login, or the static X-Admin-Token header when ADMIN_TOKEN
// is configured for service-to-service calls.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	staticToken := os.Getenv("ADMIN_TOKEN")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if staticToken != "" && r.Header.Get("X-Admin-Token") == staticToken {
			next.ServeHTTP(w, r.WithContext(audit.WithAuthor(r.Context(), "Service")))
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w)
			return
		}
		claims, err := s.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w)
			return
		}
		ctx := audit.WithAuthor(r.Context(), claims.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
