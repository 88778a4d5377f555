package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const ManagerIDKey contextKey = "managerID"

// Identity resolves the acting manager for a request. Production traffic
// carries a bearer token whose subject is the manager ID; in development a
// plain X-Manager-ID header is accepted so the API is usable without a
// token issuer.
func Identity(jwtSecret string, allowDevHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			managerID, err := resolveManagerID(r, jwtSecret, allowDevHeader)
			if err != nil {
				log.Printf("ERROR [middleware.Identity] %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ManagerIDKey, managerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveManagerID(r *http.Request, jwtSecret string, allowDevHeader bool) (uuid.UUID, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return uuid.Nil, errInvalidHeader
		}
		return parseToken(parts[1], jwtSecret)
	}

	if allowDevHeader {
		if raw := r.Header.Get("X-Manager-ID"); raw != "" {
			return uuid.Parse(raw)
		}
	}

	return uuid.Nil, errMissingIdentity
}

func parseToken(tokenString, jwtSecret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigning
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errInvalidToken
	}
	return uuid.Parse(sub)
}

func GetManagerID(ctx context.Context) (uuid.UUID, bool) {
	managerID, ok := ctx.Value(ManagerIDKey).(uuid.UUID)
	return managerID, ok
}
