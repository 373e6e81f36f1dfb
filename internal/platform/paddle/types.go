package paddle

import "encoding/json"

// Event types delivered by Paddle Billing webhooks.
const (
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionTrialing  = "subscription.trialing"
	EventSubscriptionCanceled  = "subscription.canceled"
	EventSubscriptionPaused    = "subscription.paused"
	EventSubscriptionResumed   = "subscription.resumed"
	EventSubscriptionUpdated   = "subscription.updated"
	EventTransactionCompleted  = "transaction.completed"
	EventTransactionFailed     = "transaction.payment_failed"
	EventTransactionRefunded   = "transaction.refunded"
)

// WebhookEvent is the envelope Paddle POSTs to the webhook endpoint.
type WebhookEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// CustomData is the correlation payload set at checkout; UserID is the only
// channel by which a webhook maps back to an internal user.
type CustomData struct {
	UserID string `json:"userId"`
}

type ItemPrice struct {
	ID         string     `json:"id"`
	CustomData CustomData `json:"custom_data"`
}

type Item struct {
	Price ItemPrice `json:"price"`
}

// WebhookData covers the union of subscription and transaction payloads; only
// fields the normalizer reads are declared.
type WebhookData struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	CustomerID     string     `json:"customer_id"`
	SubscriptionID string     `json:"subscription_id"`
	CustomData     CustomData `json:"custom_data"`
	Items          []Item     `json:"items"`
	Details        struct {
		Totals struct {
			GrandTotal   string `json:"grand_total"`
			CurrencyCode string `json:"currency_code"`
		} `json:"totals"`
	} `json:"details"`
	CurrencyCode string `json:"currency_code"`
}

// UserID resolves the internal user id from custom data, falling back to the
// first item's price custom data.
func (d *WebhookData) UserID() string {
	if d.CustomData.UserID != "" {
		return d.CustomData.UserID
	}
	if len(d.Items) > 0 {
		return d.Items[0].Price.CustomData.UserID
	}
	return ""
}

type Transaction struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	SubscriptionID string `json:"subscription_id"`
	Details        struct {
		Totals struct {
			GrandTotal   string `json:"grand_total"`
			CurrencyCode string `json:"currency_code"`
		} `json:"totals"`
	} `json:"details"`
}

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Detail string `json:"detail"`
	} `json:"error"`
}

type portalSessionData struct {
	ID   string `json:"id"`
	URLs struct {
		General struct {
			Overview string `json:"overview"`
		} `json:"general"`
	} `json:"urls"`
}
