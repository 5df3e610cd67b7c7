package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zjoart/instantpay-wallet/cmd/routes"
	"github.com/zjoart/instantpay-wallet/internal/testutil"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.1.1.1:5555"
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func newClient(t *testing.T) *client {
	a := testutil.NewApp(t)
	testutil.SeedDemo(t, a)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &client{t: t, handler: routes.RegisterRoutes(ctx, mux.NewRouter(), a)}
}

func TestWalletFlow(t *testing.T) {
	c := newClient(t)

	rr, _ := c.do(http.MethodGet, "/api/wallet/balance", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env := c.do(http.MethodPost, "/api/auth/login", map[string]string{"phone": "08012345678", "pin": "1234"})
	require.Equal(t, http.StatusOK, rr.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	c.token = login.Token

	rr, env = c.do(http.MethodPost, "/api/wallet/deposit", map[string]interface{}{"amount": 500, "pin": "1234"})
	require.Equal(t, http.StatusOK, rr.Code)
	var deposit struct {
		Reference string `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &deposit))

	rr, env = c.do(http.MethodGet, "/api/wallet/transactions/"+deposit.Reference, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entry struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, deposit.Reference, entry.Reference)
	assert.Equal(t, int64(500), entry.Amount)

	rr, _ = c.do(http.MethodGet, "/api/wallet/transactions/dep_unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = c.do(http.MethodPost, "/api/wallet/deposit", map[string]interface{}{"amount": int64(math.MaxInt64 - 100), "pin": "1234"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = c.do(http.MethodPost, "/api/wallet/transfer", map[string]interface{}{"recipient_phone": "08012345678", "amount": 500, "pin": "1234"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = c.do(http.MethodPost, "/api/wallet/transfer", map[string]interface{}{"recipient_phone": "08000000001", "amount": 500, "pin": "1234"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, env = c.do(http.MethodGet, "/api/wallet/balance", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var bal struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bal))
	assert.Equal(t, int64(11000), bal.Balance)

	rr, env = c.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var notes struct {
		Notifications []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"notifications"`
		Unread int64 `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, "Money Added", notes.Notifications[0].Title)
	assert.Equal(t, int64(1), notes.Unread)

	rr, _ = c.do(http.MethodPost, "/api/notifications/"+notes.Notifications[0].ID+"/read", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = c.do(http.MethodGet, "/api/wallet/transactions/export", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "statement_")
}

func TestLoginIsRateLimited(t *testing.T) {
	c := newClient(t)

	var last int
	for i := 0; i < 20; i++ {
		rr, _ := c.do(http.MethodPost, "/api/auth/login", map[string]string{"phone": "08012345678", "pin": "0000"})
		last = rr.Code
		if last == http.StatusTooManyRequests {
			break
		}
		assert.Equal(t, http.StatusUnauthorized, last)
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestPublicRoutes(t *testing.T) {
	c := newClient(t)

	rr, env := c.do(http.MethodGet, "/api/bills/categories", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Status)

	rr, _ = c.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = c.do(http.MethodGet, "/swagger.yaml", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "minimum: 100")
}
