package utils

import (
	"encoding/json"
	"net/http"

	"github.com/zjoart/instantpay-wallet/pkg/logger"
)

type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func BuildSuccessResponse(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Response{Status: true, Message: message, Data: data})
}

func BuildErrorResponse(w http.ResponseWriter, status int, message string, errors interface{}) {
	writeJSON(w, status, Response{Status: false, Message: message, Errors: errors})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", logger.WithError(err))
	}
}
