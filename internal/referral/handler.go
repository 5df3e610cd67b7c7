package referral

import (
	"net/http"

	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

func (h *Handler) GetReferrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	usr, err := h.Engine.Users.FindByID(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	refs, err := h.Engine.List(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	stats, err := h.Engine.Stats(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	if refs == nil {
		refs = []Referral{}
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Referrals", map[string]interface{}{
		"referral_code": usr.ReferralCode,
		"bonus":         h.Engine.Config.ReferralBonus,
		"threshold":     h.Engine.Config.ReferralThreshold,
		"stats":         stats,
		"referrals":     refs,
	})
}
