package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// paypalHeaders are the transmission headers PayPal signs each delivery with.
type paypalHeaders struct {
	AuthAlgo         string
	CertURL          string
	TransmissionID   string
	TransmissionSig  string
	TransmissionTime string
}

func (h paypalHeaders) complete() bool {
	return h.AuthAlgo != "" && h.CertURL != "" && h.TransmissionID != "" &&
		h.TransmissionSig != "" && h.TransmissionTime != ""
}

// RemoteVerifier is the slice of the PayPal client the parser needs. PayPal
// verification is a remote API call, not local crypto.
type RemoteVerifier interface {
	VerifyWebhookSignature(ctx context.Context, req *paypal.VerifyWebhookSignatureRequest) (bool, error)
}

type PayPalEventParser struct {
	event *paypal.WebhookEvent
	raw   []byte
}

// GetPayPalEventParser authenticates and decodes a PayPal delivery. The
// verify-webhook-signature call requires a live access token; any failure of
// that call rejects the delivery rather than crashing the handler.
func GetPayPalEventParser(ctx context.Context, cfg *config.Config, verifier RemoteVerifier, raw []byte, headers paypalHeaders) (EventParser, error) {
	var event paypal.WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if event.EventType == "" {
		return nil, fmt.Errorf("%w: missing event_type", ErrBadPayload)
	}

	if cfg.PayPalVerificationEnabled() {
		if !headers.complete() {
			return nil, fmt.Errorf("%w: missing paypal transmission headers", ErrVerificationFailed)
		}
		ok, err := verifier.VerifyWebhookSignature(ctx, &paypal.VerifyWebhookSignatureRequest{
			AuthAlgo:         headers.AuthAlgo,
			CertURL:          headers.CertURL,
			TransmissionID:   headers.TransmissionID,
			TransmissionSig:  headers.TransmissionSig,
			TransmissionTime: headers.TransmissionTime,
			WebhookID:        cfg.PayPal.WebhookID,
			WebhookEvent:     json.RawMessage(raw),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		if !ok {
			return nil, ErrVerificationFailed
		}
	}

	return &PayPalEventParser{event: &event, raw: raw}, nil
}

func (p *PayPalEventParser) Provider() types.PaymentProvider { return types.PaymentProviderPayPal }
func (p *PayPalEventParser) EventID() string                 { return p.event.ID }
func (p *PayPalEventParser) EventName() string               { return p.event.EventType }
func (p *PayPalEventParser) Data() any                       { return p.event }

func (p *PayPalEventParser) Normalize(ctx context.Context) (*types.SubscriptionEvent, error) {
	var eventType types.SubscriptionEventType
	switch p.event.EventType {
	case paypal.EventSubscriptionActivated, paypal.EventSubscriptionReActivated:
		eventType = types.SubscriptionEventActivated
	case paypal.EventSubscriptionCancelled:
		eventType = types.SubscriptionEventCancelled
	case paypal.EventSubscriptionSuspended:
		eventType = types.SubscriptionEventSuspended
	case paypal.EventSubscriptionExpired:
		eventType = types.SubscriptionEventExpired
	case paypal.EventSubscriptionUpdated:
		eventType = types.SubscriptionEventUpdated
	case paypal.EventSaleCompleted:
		eventType = types.SubscriptionEventPaymentCompleted
	case paypal.EventSaleDenied, paypal.EventSubscriptionPaymentFail:
		eventType = types.SubscriptionEventPaymentFailed
	case paypal.EventSaleRefunded:
		eventType = types.SubscriptionEventRefunded
	default:
		// Unknown event types are dropped; the provider still gets a 200.
		return nil, nil
	}

	var res paypal.WebhookResource
	if len(p.event.Resource) > 0 {
		if err := json.Unmarshal(p.event.Resource, &res); err != nil {
			return nil, fmt.Errorf("%w: resource: %v", ErrBadPayload, err)
		}
	}

	ev := &types.SubscriptionEvent{
		EventType: eventType,
		Provider:  types.PaymentProviderPayPal,
		UserID:    res.CustomID,
		PlanID:    res.PlanID,
		Status:    res.Status,
		RawEvent:  json.RawMessage(p.raw),
	}
	if ev.UserID == "" {
		ev.UserID = res.Custom
	}

	switch p.event.EventType {
	case paypal.EventSaleCompleted, paypal.EventSaleDenied, paypal.EventSaleRefunded:
		// Sales without a billing agreement are one-time payments, not
		// subscription activity. Subscription-level events carry a
		// subscription resource and never have billing_agreement_id.
		if res.BillingAgreementID == "" {
			return nil, nil
		}
		ev.SubscriptionID = res.BillingAgreementID
		ev.Amount = res.Amount.Total
		ev.Currency = res.Amount.Currency
	default:
		ev.SubscriptionID = res.ID
	}

	if ev.UserID == "" && eventType.Lifecycle() {
		return nil, fmt.Errorf("missing user id on %s", p.event.EventType)
	}

	return ev, nil
}
