package notification

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

type Handler struct {
	Sink *Sink
}

func NewHandler(sink *Sink) *Handler {
	return &Handler{Sink: sink}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	limit, offset, page := utils.GetPaginationDetails(r)

	notes, count, err := h.Sink.List(r.Context(), userID, limit, offset)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	unread, err := h.Sink.UnreadCount(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	if notes == nil {
		notes = []Notification{}
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Notifications", map[string]interface{}{
		"notifications": notes,
		"unread":        unread,
		"meta":          utils.BuildMeta(count, limit, page),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Invalid notification id", nil)
		return
	}

	if err := h.Sink.MarkRead(r.Context(), userID, id); err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Notification marked as read", nil)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	n, err := h.Sink.MarkAllRead(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Notifications marked as read", map[string]int64{"updated": n})
}
