package forwarder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/internal/models"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

type stubPusher struct {
	err    error
	calls  int
	events []*types.SubscriptionEvent
}

func (p *stubPusher) PushSubscriptionEvent(_ context.Context, ev *types.SubscriptionEvent) error {
	p.calls++
	p.events = append(p.events, ev)
	return p.err
}

func TestForward_Success(t *testing.T) {
	pusher := &stubPusher{}
	svc := NewService(pusher, nil, &config.Config{}, zap.NewNop().Sugar())

	ev := &types.SubscriptionEvent{
		EventType: types.SubscriptionEventActivated,
		Provider:  types.PaymentProviderPaddle,
		UserID:    "u123",
	}
	require.NoError(t, svc.Forward(context.Background(), ev))
	require.Equal(t, 1, pusher.calls)
	require.Same(t, ev, pusher.events[0])
}

func TestForward_NilEvent(t *testing.T) {
	svc := NewService(&stubPusher{}, nil, &config.Config{}, zap.NewNop().Sugar())
	require.Error(t, svc.Forward(context.Background(), nil))
}

func TestForward_MissingUserIDStillForwarded(t *testing.T) {
	pusher := &stubPusher{}
	svc := NewService(pusher, nil, &config.Config{}, zap.NewNop().Sugar())

	// The id gap is logged loudly but the backend still gets the event; it
	// can fall back to a subscription id lookup for payment events.
	ev := &types.SubscriptionEvent{
		EventType:      types.SubscriptionEventPaymentCompleted,
		Provider:       types.PaymentProviderPayPal,
		SubscriptionID: "I-1",
	}
	require.NoError(t, svc.Forward(context.Background(), ev))
	require.Equal(t, 1, pusher.calls)
}

func TestRetryInterval_Default(t *testing.T) {
	svc := NewService(&stubPusher{}, nil, &config.Config{}, zap.NewNop().Sugar())
	require.Equal(t, time.Minute, svc.retryInterval())

	cfg := &config.Config{}
	cfg.Forwarder.RetryIntervalSeconds = 30
	svc = NewService(&stubPusher{}, nil, cfg, zap.NewNop().Sugar())
	require.Equal(t, 30*time.Second, svc.retryInterval())
}

func TestNextBackoff(t *testing.T) {
	base := time.Minute
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{7, time.Hour}, // 64m caps at an hour
		{20, time.Hour},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NextBackoff(base, tc.attempts), "attempts=%d", tc.attempts)
	}
}

func TestDueConditions(t *testing.T) {
	now := time.Unix(1700000000, 0)

	cond, args := dueConditions(now, 10)
	require.Equal(t, "delivered_at IS NULL AND next_attempt_at <= ? AND attempts < ?", cond)
	require.Equal(t, []any{now, 10}, args)

	// Unlimited retries: exhaustion never filters the scan.
	cond, args = dueConditions(now, 0)
	require.Equal(t, "delivered_at IS NULL AND next_attempt_at <= ?", cond)
	require.Equal(t, []any{now}, args)
}

func TestDeadLetterEvent_Exhausted(t *testing.T) {
	row := &models.DeadLetterEvent{Attempts: 10}
	require.True(t, row.Exhausted(10))
	require.False(t, row.Exhausted(11))
	// Zero means unlimited retries.
	require.False(t, row.Exhausted(0))
}
