package middleware

import (
	"net/http"
	"strings"

	"github.com/cnwankpa/portfolio-api/internal/admins"
)

// RequireAdmin rejects requests without a valid admin bearer token.
// The resolved admin is attached to the request context.
func RequireAdmin(auth *admins.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			admin, err := auth.VerifyToken(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
				return
			}

			ctx := admins.ContextWithAdmin(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
