package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/cors"

	"gitlab.com/sysalgs.net/internal/domain"
)

type MiddlewareProvider struct {
	SecretOption string
	AllowOrigin  string
}

func New(secret, allowOrigin string) *MiddlewareProvider {
	return &MiddlewareProvider{
		SecretOption: secret,
		AllowOrigin:  allowOrigin,
	}
}

func (m *MiddlewareProvider) secret() []byte {
	return []byte(m.SecretOption)
}

// AuthEnabled reports whether a JWT secret is configured.
func (m *MiddlewareProvider) AuthEnabled() bool {
	return m.SecretOption != ""
}

// Protect wraps next with JWTMiddleware when auth is enabled.
func (m *MiddlewareProvider) Protect(next http.Handler) http.Handler {
	if !m.AuthEnabled() {
		return next
	}
	return m.JWTMiddleware(next)
}

// JWTMiddleware rejects requests without a valid HMAC-signed bearer token.
// Rejections use the algorithm endpoint's {status, message} body.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ResponseWithJson(w, http.StatusUnauthorized, domain.ErrorResponse("Authorization header missing"))
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return m.secret(), nil
		})

		if err != nil || !token.Valid {
			ResponseWithJson(w, http.StatusUnauthorized, domain.ErrorResponse("Invalid token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware wraps the whole router, since mux never routes OPTIONS to a
// GET or POST route. AllowOrigin may list several origins separated by commas.
func (m *MiddlewareProvider) CORSMiddleware(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:      m.allowedOrigins(),
		AllowedMethods:      []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:      []string{"Content-Type", "Authorization"},
		AllowPrivateNetwork: true,
	}).Handler(next)
}

func (m *MiddlewareProvider) allowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(m.AllowOrigin, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
