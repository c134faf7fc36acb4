// Package middleware provides the HTTP middleware chain: authentication,
// request identifiers, and per-client rate limiting.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fairdata/internal/domain"
)

// Authenticate resolves the calling principal from an HS256 Bearer
// token. Requests without an Authorization header proceed as the
// anonymous principal; services decide per operation whether anonymous
// access is acceptable. A present-but-invalid token is rejected
// outright rather than downgraded to anonymous.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{Role: domain.RoleAnonymous})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "authorization header must be a Bearer token")
				return
			}

			p, err := principalFromToken(strings.TrimPrefix(auth, "Bearer "), secret)
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), p)))
		})
	}
}

func principalFromToken(tokenStr string, secret []byte) (domain.ContextPrincipal, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return domain.ContextPrincipal{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.ContextPrincipal{}, jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.ContextPrincipal{}, jwt.ErrTokenInvalidSubject
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return domain.ContextPrincipal{}, jwt.ErrTokenInvalidSubject
	}

	role := domain.RoleAuthenticated
	if raw, ok := claims["role"].(string); ok {
		switch domain.Role(raw) {
		case domain.RoleAuthenticated, domain.RoleService:
			role = domain.Role(raw)
		default:
			return domain.ContextPrincipal{}, jwt.ErrTokenInvalidClaims
		}
	}
	return domain.ContextPrincipal{ID: id, Role: role}, nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
