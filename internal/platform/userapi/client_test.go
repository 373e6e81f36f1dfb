package userapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.ServiceAPI.URL = srv.URL
	cfg.ServiceAPI.APIKey = "internal-key"
	return New(cfg, zap.NewNop().Sugar())
}

func TestPushSubscriptionEvent_RoutesByProvider(t *testing.T) {
	cases := []struct {
		provider types.PaymentProvider
		path     string
	}{
		{types.PaymentProviderPayPal, "/paypal/subscription-event"},
		{types.PaymentProviderPaddle, "/paddle/subscription-event"},
	}
	for _, tc := range cases {
		t.Run(string(tc.provider), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, tc.path, r.URL.Path)
				require.Equal(t, "internal-key", r.Header.Get("X-Internal-Api-Key"))

				var ev types.SubscriptionEvent
				require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
				require.Equal(t, "u123", ev.UserID)
				w.WriteHeader(http.StatusOK)
			})

			err := c.PushSubscriptionEvent(context.Background(), &types.SubscriptionEvent{
				EventType: types.SubscriptionEventActivated,
				Provider:  tc.provider,
				UserID:    "u123",
			})
			require.NoError(t, err)
		})
	}
}

func TestPushSubscriptionEvent_UnknownProvider(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err := c.PushSubscriptionEvent(context.Background(), &types.SubscriptionEvent{Provider: "stripe"})
	require.Error(t, err)
}

func TestPushSubscriptionEvent_BackendError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream error"))
	})

	err := c.PushSubscriptionEvent(context.Background(), &types.SubscriptionEvent{Provider: types.PaymentProviderPaddle})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestGetUserStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/status", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "u123", req["user_id"])

		json.NewEncoder(w).Encode(UserStatus{
			UserID:           "u123",
			Plan:             "premium",
			TrialConsumed:    true,
			PaddleCustomerID: "ctm_1",
		})
	})

	status, err := c.GetUserStatus(context.Background(), "u123")
	require.NoError(t, err)
	require.True(t, status.TrialConsumed)
	require.Equal(t, "ctm_1", status.PaddleCustomerID)
}
