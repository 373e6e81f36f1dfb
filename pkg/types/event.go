package types

import "encoding/json"

// SubscriptionEventType is the internal vocabulary both provider adapters map
// their own event taxonomy onto.
type SubscriptionEventType string

const (
	SubscriptionEventActivated        SubscriptionEventType = "ACTIVATED"
	SubscriptionEventCancelled        SubscriptionEventType = "CANCELLED"
	SubscriptionEventSuspended        SubscriptionEventType = "SUSPENDED"
	SubscriptionEventExpired          SubscriptionEventType = "EXPIRED"
	SubscriptionEventUpdated          SubscriptionEventType = "UPDATED"
	SubscriptionEventPaymentCompleted SubscriptionEventType = "PAYMENT_COMPLETED"
	SubscriptionEventPaymentFailed    SubscriptionEventType = "PAYMENT_FAILED"
	SubscriptionEventRefunded         SubscriptionEventType = "REFUNDED"
)

// Lifecycle reports whether the event changes the user's plan state. Lifecycle
// events require a resolved user id; payment-only events can fall back to a
// subscription id lookup in the backend.
func (t SubscriptionEventType) Lifecycle() bool {
	return t == SubscriptionEventActivated || t == SubscriptionEventCancelled
}

// SubscriptionEvent is the provider-agnostic record forwarded to the backend
// user-service. It is created once per webhook delivery and discarded after
// forwarding; the backend owns all plan state.
type SubscriptionEvent struct {
	EventType      SubscriptionEventType `json:"event_type"`
	Provider       PaymentProvider       `json:"provider"`
	UserID         string                `json:"user_id,omitempty"`
	SubscriptionID string                `json:"subscription_id,omitempty"`
	PlanID         string                `json:"plan_id,omitempty"`
	// Status carries the provider's raw status string, passed through for audit.
	Status   string `json:"status,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	// RawEvent retains the original provider payload for debugging and replay.
	RawEvent json.RawMessage `json:"raw_event,omitempty"`
}
