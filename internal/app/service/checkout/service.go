package checkout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
	"github.com/DishIs/temp-mail-sub000/internal/platform/userapi"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

var (
	// ErrInvalidCycle rejects cycles outside the static configuration tables.
	ErrInvalidCycle = errors.New("unsupported billing cycle")
	// ErrMisconfigured means a plan/price id is missing server-side. Callers
	// must answer with a generic 500; the detail goes to logs only.
	ErrMisconfigured = errors.New("billing configuration error")
	// ErrProviderRejected wraps a provider-side rejection whose message is
	// safe to forward to the client.
	ErrProviderRejected = errors.New("payment provider rejected the request")
)

type PayPalCheckoutResult struct {
	ApproveURL     string `json:"approve_url"`
	SubscriptionID string `json:"subscription_id"`
}

type PaddleCheckoutResult struct {
	PriceID     string `json:"price_id"`
	Environment string `json:"environment"`
}

// Initiator starts a checkout for an authenticated user: a hosted approval
// URL for PayPal, a client-side price id for the Paddle.js overlay.
type Initiator interface {
	CreatePayPalSubscription(ctx context.Context, userID string, cycle types.BillingCycle) (*PayPalCheckoutResult, error)
	ResolvePaddlePrice(ctx context.Context, userID string, cycle types.BillingCycle) (*PaddleCheckoutResult, error)
	CreatePortalSession(ctx context.Context, userID string) (string, error)
}

// SubscriptionCreator is the slice of the PayPal client the initiator needs.
type SubscriptionCreator interface {
	CreateSubscription(ctx context.Context, req *paypal.CreateSubscriptionRequest) (*paypal.Subscription, error)
}

// PortalSessions is the slice of the Paddle client the initiator needs.
type PortalSessions interface {
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
}

// StatusFetcher asks the backend user-service about trial consumption and the
// Paddle customer id.
type StatusFetcher interface {
	GetUserStatus(ctx context.Context, userID string) (*userapi.UserStatus, error)
}

type Service struct {
	cfg     *config.Config
	paypal  SubscriptionCreator
	portals PortalSessions
	status  StatusFetcher
	log     *zap.SugaredLogger
}

func NewService(cfg *config.Config, pp SubscriptionCreator, portals PortalSessions, status StatusFetcher, log *zap.SugaredLogger) Initiator {
	return &Service{cfg: cfg, paypal: pp, portals: portals, status: status, log: log}
}
