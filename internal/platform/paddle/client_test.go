package paddle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Paddle.APIURL = srv.URL
	cfg.Paddle.APIKey = "pdl_test_key"
	return New(cfg, zap.NewNop().Sugar())
}

func TestClient_CreatePortalSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/customers/ctm_123/portal-sessions", r.URL.Path)
		require.Equal(t, "Bearer pdl_test_key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":"pts_1","urls":{"general":{"overview":"https://portal.paddle.com/x"}}}}`))
	}))

	url, err := c.CreatePortalSession(context.Background(), "ctm_123")
	require.NoError(t, err)
	require.Equal(t, "https://portal.paddle.com/x", url)
}

func TestClient_CreatePortalSession_EmptyCustomer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.CreatePortalSession(context.Background(), "")
	require.Error(t, err)
}

func TestClient_CreatePortalSession_APIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"detail":"forbidden"}}`))
	}))

	_, err := c.CreatePortalSession(context.Background(), "ctm_123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "forbidden")
}

func TestClient_GetTransaction(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transactions/txn_456", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"txn_456","status":"completed","subscription_id":"sub_1","details":{"totals":{"grand_total":"999","currency_code":"USD"}}}}`))
	}))

	txn, err := c.GetTransaction(context.Background(), "txn_456")
	require.NoError(t, err)
	require.Equal(t, "sub_1", txn.SubscriptionID)
	require.Equal(t, "999", txn.Details.Totals.GrandTotal)
	require.Equal(t, "USD", txn.Details.Totals.CurrencyCode)
}
