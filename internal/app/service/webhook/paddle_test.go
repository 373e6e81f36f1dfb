package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paddle"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

type stubLookup struct {
	txn   *paddle.Transaction
	err   error
	calls int
}

func (l *stubLookup) GetTransaction(_ context.Context, transactionID string) (*paddle.Transaction, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.txn, nil
}

func paddleConfig(secret string) *config.Config {
	cfg := &config.Config{Env: config.EnvDev}
	cfg.Paddle.WebhookSecret = secret
	return cfg
}

func paddleEventBody(t *testing.T, eventType string, data map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event_id":   "evt_1",
		"event_type": eventType,
		"data":       data,
	})
	require.NoError(t, err)
	return body
}

func TestPaddleParser_ValidSignature(t *testing.T) {
	now := time.Now()
	body := paddleEventBody(t, paddle.EventSubscriptionActivated, map[string]any{"id": "sub_1"})
	header := paddle.Sign(body, "whsec", now)

	p, err := GetPaddleEventParser(paddleConfig("whsec"), nil, body, header, now)
	require.NoError(t, err)
	require.Equal(t, types.PaymentProviderPaddle, p.Provider())
	require.Equal(t, "evt_1", p.EventID())
	require.Equal(t, paddle.EventSubscriptionActivated, p.EventName())
}

func TestPaddleParser_InvalidSignature(t *testing.T) {
	now := time.Now()
	body := paddleEventBody(t, paddle.EventSubscriptionActivated, nil)
	header := paddle.Sign(body, "wrong-secret", now)

	_, err := GetPaddleEventParser(paddleConfig("whsec"), nil, body, header, now)
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestPaddleParser_SignatureCheckedBeforeParsing(t *testing.T) {
	// An unauthenticated delivery never reaches the JSON decoder; bad JSON
	// with a bad signature is a 401, not a 400.
	_, err := GetPaddleEventParser(paddleConfig("whsec"), nil, []byte("{not json"), "", time.Now())
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestPaddleParser_StaleSignature(t *testing.T) {
	now := time.Now()
	body := paddleEventBody(t, paddle.EventSubscriptionActivated, nil)
	header := paddle.Sign(body, "whsec", now.Add(-6*time.Minute))

	_, err := GetPaddleEventParser(paddleConfig("whsec"), nil, body, header, now)
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestPaddleParser_BadJSON(t *testing.T) {
	cfg := paddleConfig("")
	cfg.Paddle.SkipVerification = true

	_, err := GetPaddleEventParser(cfg, nil, []byte("{not json"), "", time.Now())
	require.ErrorIs(t, err, ErrBadPayload)
}

func normalizePaddle(t *testing.T, lookup TransactionLookup, eventType string, data map[string]any) *types.SubscriptionEvent {
	t.Helper()
	now := time.Now()
	body := paddleEventBody(t, eventType, data)
	header := paddle.Sign(body, "whsec", now)

	p, err := GetPaddleEventParser(paddleConfig("whsec"), lookup, body, header, now)
	require.NoError(t, err)
	ev, err := p.Normalize(context.Background())
	require.NoError(t, err)
	return ev
}

func TestPaddleParser_EventTypeMapping(t *testing.T) {
	cases := []struct {
		provider string
		want     types.SubscriptionEventType
	}{
		{paddle.EventSubscriptionCreated, types.SubscriptionEventActivated},
		{paddle.EventSubscriptionActivated, types.SubscriptionEventActivated},
		// A trial grants access immediately.
		{paddle.EventSubscriptionTrialing, types.SubscriptionEventActivated},
		{paddle.EventSubscriptionResumed, types.SubscriptionEventActivated},
		{paddle.EventSubscriptionCanceled, types.SubscriptionEventCancelled},
		{paddle.EventSubscriptionPaused, types.SubscriptionEventSuspended},
		{paddle.EventSubscriptionUpdated, types.SubscriptionEventUpdated},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			ev := normalizePaddle(t, nil, tc.provider, map[string]any{
				"id":          "sub_1",
				"custom_data": map[string]any{"userId": "u1"},
			})
			require.NotNil(t, ev)
			require.Equal(t, tc.want, ev.EventType)
			require.Equal(t, "sub_1", ev.SubscriptionID)
		})
	}
}

func TestPaddleParser_UnknownEventDropped(t *testing.T) {
	ev := normalizePaddle(t, nil, "address.created", map[string]any{"id": "add_1"})
	require.Nil(t, ev)
}

func TestPaddleParser_UserIDFromCustomData(t *testing.T) {
	ev := normalizePaddle(t, nil, paddle.EventSubscriptionActivated, map[string]any{
		"id":          "sub_1",
		"status":      "active",
		"custom_data": map[string]any{"userId": "u123"},
		"items": []map[string]any{
			{"price": map[string]any{"id": "pri_1", "custom_data": map[string]any{"userId": "shadowed"}}},
		},
	})
	require.NotNil(t, ev)
	require.Equal(t, "u123", ev.UserID)
	require.Equal(t, "pri_1", ev.PlanID)
	require.Equal(t, "active", ev.Status)
}

func TestPaddleParser_UserIDFallsBackToItemPrice(t *testing.T) {
	ev := normalizePaddle(t, nil, paddle.EventSubscriptionActivated, map[string]any{
		"id": "sub_1",
		"items": []map[string]any{
			{"price": map[string]any{"id": "pri_1", "custom_data": map[string]any{"userId": "u456"}}},
		},
	})
	require.NotNil(t, ev)
	require.Equal(t, "u456", ev.UserID)
}

func TestPaddleParser_LifecycleRequiresUserID(t *testing.T) {
	for _, eventType := range []string{paddle.EventSubscriptionActivated, paddle.EventSubscriptionCanceled} {
		t.Run(eventType, func(t *testing.T) {
			now := time.Now()
			body := paddleEventBody(t, eventType, map[string]any{"id": "sub_1"})
			header := paddle.Sign(body, "whsec", now)

			p, err := GetPaddleEventParser(paddleConfig("whsec"), nil, body, header, now)
			require.NoError(t, err)
			_, err = p.Normalize(context.Background())
			require.ErrorContains(t, err, "missing user id")
		})
	}
}

func TestPaddleParser_OneTimeTransactionDropped(t *testing.T) {
	for _, eventType := range []string{paddle.EventTransactionCompleted, paddle.EventTransactionFailed, paddle.EventTransactionRefunded} {
		t.Run(eventType, func(t *testing.T) {
			ev := normalizePaddle(t, nil, eventType, map[string]any{
				"id":          "txn_1",
				"custom_data": map[string]any{"userId": "u1"},
			})
			require.Nil(t, ev)
		})
	}
}

func TestPaddleParser_TransactionCompleted(t *testing.T) {
	ev := normalizePaddle(t, nil, paddle.EventTransactionCompleted, map[string]any{
		"id":              "txn_1",
		"subscription_id": "sub_1",
		"custom_data":     map[string]any{"userId": "u1"},
		"details":         map[string]any{"totals": map[string]any{"grand_total": "999", "currency_code": "USD"}},
	})
	require.NotNil(t, ev)
	require.Equal(t, types.SubscriptionEventPaymentCompleted, ev.EventType)
	require.Equal(t, "sub_1", ev.SubscriptionID)
	require.Equal(t, "999", ev.Amount)
	require.Equal(t, "USD", ev.Currency)
}

func TestPaddleParser_TransactionEnrichedViaLookup(t *testing.T) {
	txn := &paddle.Transaction{ID: "txn_1"}
	txn.Details.Totals.GrandTotal = "1999"
	txn.Details.Totals.CurrencyCode = "EUR"
	lookup := &stubLookup{txn: txn}

	ev := normalizePaddle(t, lookup, paddle.EventTransactionCompleted, map[string]any{
		"id":              "txn_1",
		"subscription_id": "sub_1",
	})
	require.NotNil(t, ev)
	require.Equal(t, 1, lookup.calls)
	require.Equal(t, "1999", ev.Amount)
	require.Equal(t, "EUR", ev.Currency)
}

func TestPaddleParser_LookupFailureIsBestEffort(t *testing.T) {
	lookup := &stubLookup{err: fmt.Errorf("paddle down")}

	ev := normalizePaddle(t, lookup, paddle.EventTransactionCompleted, map[string]any{
		"id":              "txn_1",
		"subscription_id": "sub_1",
	})
	require.NotNil(t, ev)
	require.Equal(t, 1, lookup.calls)
	require.Empty(t, ev.Amount)
}
