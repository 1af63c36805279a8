package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"imageLocator/internal/lib/api/response"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"log/slog"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Claims are the fields read from access tokens issued by the identity provider.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// New verifies HS256 bearer tokens and puts the caller on the request context.
func New(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/auth"),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			user, err := parse(r.Header.Get("Authorization"), key)
			if err != nil {
				log.Debug("request rejected", slog.String("path", r.URL.Path), sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}

func parse(header string, key []byte) (models.User, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return models.User{}, fmt.Errorf("missing bearer token: %w", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID <= 0 {
		return models.User{}, fmt.Errorf("no user_id claim: %w", ErrInvalidToken)
	}

	return models.User{ID: claims.UserID, Username: claims.Username}, nil
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(models.User)
	return user, ok
}
