package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
	"github.com/DishIs/temp-mail-sub000/internal/platform/userapi"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

type stubCreator struct {
	sub   *paypal.Subscription
	err   error
	calls int
	last  *paypal.CreateSubscriptionRequest
}

func (s *stubCreator) CreateSubscription(_ context.Context, req *paypal.CreateSubscriptionRequest) (*paypal.Subscription, error) {
	s.calls++
	s.last = req
	return s.sub, s.err
}

type stubPortals struct {
	url   string
	err   error
	calls int
	last  string
}

func (s *stubPortals) CreatePortalSession(_ context.Context, customerID string) (string, error) {
	s.calls++
	s.last = customerID
	return s.url, s.err
}

type stubStatus struct {
	status *userapi.UserStatus
	err    error
}

func (s *stubStatus) GetUserStatus(context.Context, string) (*userapi.UserStatus, error) {
	return s.status, s.err
}

func checkoutConfig() *config.Config {
	cfg := &config.Config{Env: config.EnvDev}
	cfg.PayPal.PlanWeekly = "P-WEEK"
	cfg.PayPal.PlanMonthly = "P-MONTH"
	cfg.PayPal.PlanYearly = "P-YEAR"
	cfg.PayPal.BrandName = "TempMail"
	cfg.PayPal.ReturnURL = "https://app.example.com/return"
	cfg.PayPal.CancelURL = "https://app.example.com/cancel"
	cfg.Paddle.PriceMonthlyTrial = "pri_trial"
	cfg.Paddle.PriceMonthlyNoTrial = "pri_no_trial"
	cfg.Paddle.PriceYearly = "pri_year"
	cfg.Paddle.Environment = "sandbox"
	return cfg
}

func newCheckout(cfg *config.Config, pp SubscriptionCreator, portals PortalSessions, status StatusFetcher) Initiator {
	return NewService(cfg, pp, portals, status, zap.NewNop().Sugar())
}

func TestCreatePayPalSubscription(t *testing.T) {
	creator := &stubCreator{sub: &paypal.Subscription{
		ID:    "I-SUB1",
		Links: []paypal.Link{{Href: "https://www.paypal.com/approve", Rel: "approve"}},
	}}
	svc := newCheckout(checkoutConfig(), creator, nil, nil)

	res, err := svc.CreatePayPalSubscription(context.Background(), "u123", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "https://www.paypal.com/approve", res.ApproveURL)
	require.Equal(t, "I-SUB1", res.SubscriptionID)

	require.Equal(t, "P-MONTH", creator.last.PlanID)
	require.Equal(t, "u123", creator.last.CustomID)
	require.Equal(t, "SUBSCRIBE_NOW", creator.last.ApplicationContext.UserAction)
	require.Equal(t, "IMMEDIATE_PAYMENT_REQUIRED", creator.last.ApplicationContext.PaymentMethod.PayeePreferred)
}

func TestCreatePayPalSubscription_BogusCycle(t *testing.T) {
	creator := &stubCreator{}
	svc := newCheckout(checkoutConfig(), creator, nil, nil)

	for _, cycle := range []types.BillingCycle{"lifetime", "", "Monthly", types.BillingCycleMonthlyNoTrial} {
		_, err := svc.CreatePayPalSubscription(context.Background(), "u123", cycle)
		require.ErrorIs(t, err, ErrInvalidCycle, "cycle %q", cycle)
	}
	// The provider is never contacted for a cycle outside the plan table.
	require.Zero(t, creator.calls)
}

func TestCreatePayPalSubscription_MissingPlan(t *testing.T) {
	cfg := checkoutConfig()
	cfg.PayPal.PlanYearly = ""
	creator := &stubCreator{}
	svc := newCheckout(cfg, creator, nil, nil)

	_, err := svc.CreatePayPalSubscription(context.Background(), "u123", types.BillingCycleYearly)
	require.ErrorIs(t, err, ErrMisconfigured)
	require.Zero(t, creator.calls)
}

func TestCreatePayPalSubscription_ProviderError(t *testing.T) {
	creator := &stubCreator{err: fmt.Errorf("422 plan not active")}
	svc := newCheckout(checkoutConfig(), creator, nil, nil)

	_, err := svc.CreatePayPalSubscription(context.Background(), "u123", types.BillingCycleWeekly)
	require.ErrorIs(t, err, ErrProviderRejected)
}

func TestCreatePayPalSubscription_MissingApproveLink(t *testing.T) {
	creator := &stubCreator{sub: &paypal.Subscription{ID: "I-SUB1"}}
	svc := newCheckout(checkoutConfig(), creator, nil, nil)

	_, err := svc.CreatePayPalSubscription(context.Background(), "u123", types.BillingCycleMonthly)
	require.ErrorIs(t, err, ErrProviderRejected)
}

func TestResolvePaddlePrice_TrialDefault(t *testing.T) {
	svc := newCheckout(checkoutConfig(), nil, nil, &stubStatus{status: &userapi.UserStatus{}})

	res, err := svc.ResolvePaddlePrice(context.Background(), "u123", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "pri_trial", res.PriceID)
	require.Equal(t, "sandbox", res.Environment)
}

func TestResolvePaddlePrice_TrialConsumed(t *testing.T) {
	svc := newCheckout(checkoutConfig(), nil, nil, &stubStatus{status: &userapi.UserStatus{TrialConsumed: true}})

	res, err := svc.ResolvePaddlePrice(context.Background(), "u123", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "pri_no_trial", res.PriceID)
}

func TestResolvePaddlePrice_StatusLookupFailureIsAdvisory(t *testing.T) {
	svc := newCheckout(checkoutConfig(), nil, nil, &stubStatus{err: fmt.Errorf("backend down")})

	res, err := svc.ResolvePaddlePrice(context.Background(), "u123", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "pri_trial", res.PriceID)
}

func TestResolvePaddlePrice_ExplicitNoTrial(t *testing.T) {
	// monthly_no_trial is a valid requested cycle, not just the fallback for
	// consumed trials. No status lookup is needed to resolve it.
	svc := newCheckout(checkoutConfig(), nil, nil, &stubStatus{err: fmt.Errorf("backend down")})

	res, err := svc.ResolvePaddlePrice(context.Background(), "u123", types.BillingCycleMonthlyNoTrial)
	require.NoError(t, err)
	require.Equal(t, "pri_no_trial", res.PriceID)
}

func TestResolvePaddlePrice_Yearly(t *testing.T) {
	svc := newCheckout(checkoutConfig(), nil, nil, &stubStatus{status: &userapi.UserStatus{TrialConsumed: true}})

	res, err := svc.ResolvePaddlePrice(context.Background(), "u123", types.BillingCycleYearly)
	require.NoError(t, err)
	require.Equal(t, "pri_year", res.PriceID)
}

func TestResolvePaddlePrice_BogusCycle(t *testing.T) {
	svc := newCheckout(checkoutConfig(), nil, nil, &stubStatus{})

	for _, cycle := range []types.BillingCycle{types.BillingCycleWeekly, "lifetime", ""} {
		_, err := svc.ResolvePaddlePrice(context.Background(), "u123", cycle)
		require.ErrorIs(t, err, ErrInvalidCycle, "cycle %q", cycle)
	}
}

func TestCreatePortalSession(t *testing.T) {
	portals := &stubPortals{url: "https://portal.paddle.com/x"}
	status := &stubStatus{status: &userapi.UserStatus{PaddleCustomerID: "ctm_1"}}
	svc := newCheckout(checkoutConfig(), nil, portals, status)

	url, err := svc.CreatePortalSession(context.Background(), "u123")
	require.NoError(t, err)
	require.Equal(t, "https://portal.paddle.com/x", url)
	require.Equal(t, "ctm_1", portals.last)
}

func TestCreatePortalSession_NoPaddleCustomer(t *testing.T) {
	portals := &stubPortals{}
	svc := newCheckout(checkoutConfig(), nil, portals, &stubStatus{status: &userapi.UserStatus{}})

	_, err := svc.CreatePortalSession(context.Background(), "u123")
	require.Error(t, err)
	require.Zero(t, portals.calls)
}
