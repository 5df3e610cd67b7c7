// Package apperr holds the wallet's error taxonomy. Every failure a caller
// can recover from is one of the sentinels below or a *ValidationError.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
)

var (
	ErrAuth                = errors.New("authentication failed")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrSelfTransfer        = errors.New("cannot transfer to self")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCodeGeneration      = errors.New("could not generate a unique referral code")
	ErrNotFound            = errors.New("not found")
)

// ValidationError maps request field names to messages. It always carries
// every violated field, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Set records msg for field, replacing any earlier message.
func (e *ValidationError) Set(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no field failed so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func HTTPStatus(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSelfTransfer),
		errors.Is(err, ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, ErrRecipientNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as an error envelope. Unclassified errors are logged
// and reported without their detail.
func Respond(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)

	var verr *ValidationError
	if errors.As(err, &verr) {
		utils.BuildErrorResponse(w, status, "Validation failed", verr.Fields)
		return
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", logger.WithError(err))
		utils.BuildErrorResponse(w, status, "Something went wrong", nil)
		return
	}

	utils.BuildErrorResponse(w, status, message(err), nil)
}

func message(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
