package wallet

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) GetWalletBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	balance, err := h.Service.Balance(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Wallet Balance", map[string]any{
		"balance": balance,
	})
}

func (h *Handler) TransferFunds(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req TransferInput
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	result, err := h.Service.Transfer(r.Context(), userID, req)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transfer completed", result)
}

func (h *Handler) PayBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req BillInput
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	result, err := h.Service.PayBill(r.Context(), userID, req)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Bill payment successful", result)
}

func (h *Handler) WalletDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req DepositInput
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	tx, err := h.Service.Deposit(r.Context(), userID, req)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Money added", tx)
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	limit, offset, page := utils.GetPaginationDetails(r)

	txs, count, err := h.Service.Transactions(r.Context(), userID, limit, offset)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	if txs == nil {
		txs = []Transaction{}
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transaction History", map[string]interface{}{
		"transactions": txs,
		"meta":         utils.BuildMeta(count, limit, page),
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	tx, err := h.Service.Transaction(r.Context(), userID, mux.Vars(r)["reference"])
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transaction", tx)
}

func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.CurrentUserID(r.Context())
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	// buffer so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.Service.ExportStatement(r.Context(), userID, &buf); err != nil {
		apperr.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"statement_%s.xlsx\"", time.Now().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Failed to stream statement", logger.WithError(err))
	}
}
