package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/referral"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

type Handler struct {
	Config        config.Config
	Users         *user.Service
	Referrals     *referral.Engine
	Notifications *notification.Sink
}

func NewHandler(cfg config.Config, users *user.Service, referrals *referral.Engine, notifications *notification.Sink) *Handler {
	return &Handler{Config: cfg, Users: users, Referrals: referrals, Notifications: notifications}
}

type LoginInput struct {
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

type VerifyInput struct {
	OTP string `json:"otp"`
}

// IssueToken signs an HS256 session token for usr.
func IssueToken(cfg config.Config, usr *user.User) (string, time.Time, error) {
	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	expiresAt := time.Now().Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		utils.UserIDKey: usr.ID.String(),
		utils.ExpKey:    expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterInput
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	usr, err := h.Users.Register(r.Context(), req)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, "Account created", usr)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginInput
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	usr, err := h.Users.Authenticate(r.Context(), req.Phone, req.Pin)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, "Login successful", usr)
}

// Verify accepts any four digit code; there is no OTP delivery behind it.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req VerifyInput
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if !utils.ValidatePin(utils.SanitizeString(req.OTP)) {
		verr := apperr.NewValidationError()
		verr.Add("otp", "Enter the 4-digit code")
		apperr.Respond(w, verr)
		return
	}

	usr, err := h.Users.Verify(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Account verified", usr)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	usr, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	stats, err := h.Referrals.Stats(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	unread, err := h.Notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Profile", map[string]interface{}{
		"user":           usr,
		"referral_stats": stats,
		"unread":         unread,
	})
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, message string, usr *user.User) {
	token, expiresAt, err := IssueToken(h.Config, usr)
	if err != nil {
		logger.Error("Failed to sign token", logger.Merge(logger.WithError(err), logger.Fields{logger.UserIdKey: usr.ID.String()}))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	utils.BuildSuccessResponse(w, status, message, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
		"user":       usr,
	})
}
