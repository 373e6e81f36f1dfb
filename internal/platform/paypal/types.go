package paypal

import "encoding/json"

// Subscription lifecycle event types delivered by PayPal webhooks.
const (
	EventSubscriptionActivated   = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionReActivated = "BILLING.SUBSCRIPTION.RE-ACTIVATED"
	EventSubscriptionCancelled   = "BILLING.SUBSCRIPTION.CANCELLED"
	EventSubscriptionSuspended   = "BILLING.SUBSCRIPTION.SUSPENDED"
	EventSubscriptionExpired     = "BILLING.SUBSCRIPTION.EXPIRED"
	EventSubscriptionUpdated     = "BILLING.SUBSCRIPTION.UPDATED"
	EventSubscriptionPaymentFail = "BILLING.SUBSCRIPTION.PAYMENT.FAILED"
	EventSaleCompleted           = "PAYMENT.SALE.COMPLETED"
	EventSaleDenied              = "PAYMENT.SALE.DENIED"
	EventSaleRefunded            = "PAYMENT.SALE.REFUNDED"
)

// WebhookEvent is the envelope PayPal POSTs to the webhook endpoint.
type WebhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  json.RawMessage `json:"resource"`
}

// WebhookResource covers the union of subscription and sale resources; only
// the fields the normalizer reads are declared.
type WebhookResource struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	PlanID   string `json:"plan_id"`
	CustomID string `json:"custom_id"`
	// Legacy field name used by some sale resources.
	Custom string `json:"custom"`
	// BillingAgreementID links a sale to its subscription. Sales without it
	// are one-time payments.
	BillingAgreementID string `json:"billing_agreement_id"`
	Amount             struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"amount"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type ApplicationContext struct {
	BrandName          string `json:"brand_name,omitempty"`
	ReturnURL          string `json:"return_url,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
	UserAction         string `json:"user_action,omitempty"`
	ShippingPreference string `json:"shipping_preference,omitempty"`
	PaymentMethod      struct {
		PayeePreferred string `json:"payee_preferred,omitempty"`
	} `json:"payment_method"`
}

type CreateSubscriptionRequest struct {
	PlanID             string             `json:"plan_id"`
	CustomID           string             `json:"custom_id"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// ApproveLink returns the hosted approval URL the client must be redirected
// to, or "" when PayPal omitted it.
func (s *Subscription) ApproveLink() string {
	for _, l := range s.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

// VerifyWebhookSignatureRequest mirrors the verify-webhook-signature API body.
type VerifyWebhookSignatureRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyWebhookSignatureResponse struct {
	VerificationStatus string `json:"verification_status"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
