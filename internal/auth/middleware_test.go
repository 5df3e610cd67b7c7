package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zjoart/instantpay-wallet/internal/auth"
	"github.com/zjoart/instantpay-wallet/internal/testutil"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTMiddleware(t *testing.T) {
	a := testutil.NewApp(t)
	demo := testutil.SeedDemo(t, a)

	valid, _, err := auth.IssueToken(a.Config, demo)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "Missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage token",
			header:         "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong secret",
			header: "Bearer " + signed(t, "other-secret", jwt.MapClaims{
				utils.UserIDKey: demo.ID.String(),
				utils.ExpKey:    time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired token",
			header: "Bearer " + signed(t, a.Config.JWTSecret, jwt.MapClaims{
				utils.UserIDKey: demo.ID.String(),
				utils.ExpKey:    time.Now().Add(-time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown user",
			header: "Bearer " + signed(t, a.Config.JWTSecret, jwt.MapClaims{
				utils.UserIDKey: uuid.NewString(),
				utils.ExpKey:    time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid token",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = utils.CurrentUserID(r.Context())
				_, hasUser := r.Context().Value(utils.UserKey).(user.User)
				assert.True(t, hasUser)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			auth.JWTMiddleware(a.Config, a.UserRepo)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, demo.ID, seen)
			}
		})
	}
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testutil.Config()

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		utils.UserIDKey: uuid.NewString(),
		utils.ExpKey:    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.ParseToken(cfg, "Bearer "+none)
	assert.Error(t, err)

	_, err = auth.ParseToken(cfg, "Token abc")
	assert.Error(t, err)

	_, err = auth.ParseToken(cfg, "Bearer "+signed(t, cfg.JWTSecret, jwt.MapClaims{
		utils.UserIDKey: "not-a-uuid",
		utils.ExpKey:    time.Now().Add(time.Hour).Unix(),
	}))
	assert.EqualError(t, err, "Invalid user ID in token")
}
