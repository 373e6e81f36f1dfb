package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paddle"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// TransactionLookup enriches payment events whose webhook payload omitted
// totals. Nil-able; enrichment is best effort.
type TransactionLookup interface {
	GetTransaction(ctx context.Context, transactionID string) (*paddle.Transaction, error)
}

type PaddleEventParser struct {
	event  *paddle.WebhookEvent
	raw    []byte
	lookup TransactionLookup
}

// GetPaddleEventParser authenticates and decodes a Paddle delivery. Paddle
// signatures are verified locally: HMAC-SHA256 over "{ts}:{rawBody}" with a
// 300 s freshness window.
func GetPaddleEventParser(cfg *config.Config, lookup TransactionLookup, raw []byte, signatureHeader string, now time.Time) (EventParser, error) {
	if cfg.PaddleVerificationEnabled() {
		if err := paddle.VerifySignature(signatureHeader, raw, cfg.Paddle.WebhookSecret, now); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
	}

	var event paddle.WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if event.EventType == "" {
		return nil, fmt.Errorf("%w: missing event_type", ErrBadPayload)
	}

	return &PaddleEventParser{event: &event, raw: raw, lookup: lookup}, nil
}

func (p *PaddleEventParser) Provider() types.PaymentProvider { return types.PaymentProviderPaddle }
func (p *PaddleEventParser) EventID() string                 { return p.event.EventID }
func (p *PaddleEventParser) EventName() string               { return p.event.EventType }
func (p *PaddleEventParser) Data() any                       { return p.event }

func (p *PaddleEventParser) Normalize(ctx context.Context) (*types.SubscriptionEvent, error) {
	var eventType types.SubscriptionEventType
	switch p.event.EventType {
	case paddle.EventSubscriptionCreated, paddle.EventSubscriptionActivated,
		paddle.EventSubscriptionResumed:
		eventType = types.SubscriptionEventActivated
	case paddle.EventSubscriptionTrialing:
		// A trial grants access immediately.
		eventType = types.SubscriptionEventActivated
	case paddle.EventSubscriptionCanceled:
		eventType = types.SubscriptionEventCancelled
	case paddle.EventSubscriptionPaused:
		eventType = types.SubscriptionEventSuspended
	case paddle.EventSubscriptionUpdated:
		eventType = types.SubscriptionEventUpdated
	case paddle.EventTransactionCompleted:
		eventType = types.SubscriptionEventPaymentCompleted
	case paddle.EventTransactionFailed:
		eventType = types.SubscriptionEventPaymentFailed
	case paddle.EventTransactionRefunded:
		eventType = types.SubscriptionEventRefunded
	default:
		return nil, nil
	}

	var data paddle.WebhookData
	if len(p.event.Data) > 0 {
		if err := json.Unmarshal(p.event.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrBadPayload, err)
		}
	}

	ev := &types.SubscriptionEvent{
		EventType: eventType,
		Provider:  types.PaymentProviderPaddle,
		UserID:    data.UserID(),
		Status:    data.Status,
		RawEvent:  json.RawMessage(p.raw),
	}

	switch eventType {
	case types.SubscriptionEventPaymentCompleted, types.SubscriptionEventPaymentFailed, types.SubscriptionEventRefunded:
		// Transactions without a subscription are one-time payments.
		if data.SubscriptionID == "" {
			return nil, nil
		}
		ev.SubscriptionID = data.SubscriptionID
		ev.Amount = data.Details.Totals.GrandTotal
		ev.Currency = data.Details.Totals.CurrencyCode
		if ev.Currency == "" {
			ev.Currency = data.CurrencyCode
		}
		if ev.Amount == "" && p.lookup != nil && data.ID != "" {
			if txn, err := p.lookup.GetTransaction(ctx, data.ID); err == nil {
				ev.Amount = txn.Details.Totals.GrandTotal
				if ev.Currency == "" {
					ev.Currency = txn.Details.Totals.CurrencyCode
				}
			}
		}
	default:
		ev.SubscriptionID = data.ID
		if len(data.Items) > 0 {
			ev.PlanID = data.Items[0].Price.ID
		}
	}

	if ev.UserID == "" && eventType.Lifecycle() {
		return nil, fmt.Errorf("missing user id on %s", p.event.EventType)
	}

	return ev, nil
}
