package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ProtectedPrefix is the route prefix whose mutating requests need a token.
const ProtectedPrefix = "/api/products"

var protectedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// HTTPMiddleware rejects unauthenticated writes to product routes.
// Reads and CORS preflights pass through untouched.
func HTTPMiddleware(next http.Handler, jwtSecret string, logger *zap.Logger) http.Handler {
	logger = logger.Named("auth")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			logger.Debug("rejected token", zap.Error(err), zap.String("path", r.URL.Path))
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	return claims, ok
}

func isProtectedRequest(r *http.Request) bool {
	if !protectedMethods[r.Method] {
		return false
	}
	return r.URL.Path == ProtectedPrefix || strings.HasPrefix(r.URL.Path, ProtectedPrefix+"/")
}
