package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/talentloop/talentloop/internal/ctxkeys"
	"github.com/talentloop/talentloop/internal/model"
	"github.com/talentloop/talentloop/internal/service"
)

// AuthMiddleware verifies the Bearer token issued by the external identity
// gate and attaches the actor to the request context. The actor row must
// still resolve and be active; the token alone is not trusted for role.
func AuthMiddleware(jwtSecret string, identity service.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				// No token, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifyToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			actorID, ok := claims["sub"].(string)
			if !ok || actorID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := identity.Resolve(actorID)
			if err != nil || !user.IsActive() {
				next.ServeHTTP(w, r)
				return
			}

			actor := &model.Actor{ID: user.ID, Role: user.Role}
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithActor(r.Context(), actor)))
		})
	}
}

func verifyToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// RequireAuth rejects unauthenticated requests.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxkeys.Actor(r.Context())
		if actor == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
