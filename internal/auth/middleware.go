package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

var (
	errMissingToken = errors.New("Authorization required")
	errBadToken     = errors.New("Invalid token")
	errBadSubject   = errors.New("Invalid user ID in token")
)

// JWTMiddleware resolves the bearer token to a live user and stores both the
// user and its id on the request context.
func JWTMiddleware(cfg config.Config, userRepo user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := ParseToken(cfg, r.Header.Get("Authorization"))
			if err != nil {
				utils.BuildErrorResponse(w, http.StatusUnauthorized, err.Error(), nil)
				return
			}

			usr, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				utils.BuildErrorResponse(w, http.StatusUnauthorized, "User not found", nil)
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserKey, *usr)
			ctx = context.WithValue(ctx, utils.UserIDCtxKey, usr.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken validates an "Authorization: Bearer" value issued by IssueToken
// and returns the user id it carries.
func ParseToken(cfg config.Config, header string) (uuid.UUID, error) {
	raw, found := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return uuid.Nil, errMissingToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, errBadToken
	}

	subject, _ := claims[utils.UserIDKey].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, errBadSubject
	}
	return userID, nil
}
