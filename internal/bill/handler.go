package bill

import (
	"net/http"

	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

type Handler struct {
	Repo Repository
	Fee  int64
}

func NewHandler(repo Repository, fee int64) *Handler {
	return &Handler{Repo: repo, Fee: fee}
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, http.StatusOK, "Bill categories", map[string]interface{}{
		"categories": Catalog,
		"fee":        h.Fee,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	limit, offset, page := utils.GetPaginationDetails(r)

	bills, err := h.Repo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	count, err := h.Repo.CountByUser(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	if bills == nil {
		bills = []Bill{}
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Bill History", map[string]interface{}{
		"bills": bills,
		"meta":  utils.BuildMeta(count, limit, page),
	})
}
