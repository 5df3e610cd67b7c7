package bill

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCategory(t *testing.T) {
	tv, ok := FindCategory("TV")
	require.True(t, ok)
	assert.Equal(t, "Card Number", tv.AccountLabel)
	assert.True(t, tv.HasProvider("DSTV"))
	assert.False(t, tv.HasProvider("MTN"))

	_, ok = FindCategory("Water")
	assert.False(t, ok)

	_, ok = FindCategory("tv")
	assert.False(t, ok, "category names are matched exactly")
}

func TestBillTotal(t *testing.T) {
	assert.Equal(t, int64(1050), Bill{Amount: 1000, Fee: 50}.Total())
}

func TestCategoriesHandler(t *testing.T) {
	h := NewHandler(nil, 50)

	rr := httptest.NewRecorder()
	h.Categories(rr, httptest.NewRequest("GET", "/api/bills/categories", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			Categories []Category `json:"categories"`
			Fee        int64      `json:"fee"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Data.Categories, 4)
	assert.Equal(t, int64(50), body.Data.Fee)
}

func TestHistoryRequiresUser(t *testing.T) {
	h := NewHandler(nil, 50)

	rr := httptest.NewRecorder()
	h.History(rr, httptest.NewRequest("GET", "/api/bills", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
