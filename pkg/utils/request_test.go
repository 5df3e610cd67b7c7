package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Amount int64 `json:"amount"`
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
	}{
		{"valid", "application/json; charset=utf-8", `{"amount": 500}`, http.StatusOK},
		{"wrong content type", "text/plain", `{"amount": 500}`, http.StatusUnsupportedMediaType},
		{"empty body", "application/json", ``, http.StatusBadRequest},
		{"unknown field", "application/json", `{"amount": 5, "pin_hash": "x"}`, http.StatusBadRequest},
		{"two objects", "application/json", `{"amount": 1}{"amount": 2}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			var dst payload
			status, err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)

			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, int64(500), dst.Amount)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
