package checkout

import (
	"context"
	"fmt"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
	"github.com/DishIs/temp-mail-sub000/pkg/logctx"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// CreatePayPalSubscription creates the provider-side subscription resource
// and returns the hosted approval link. custom_id carries the internal user
// id; it is the only channel the webhook receiver can recover identity from.
func (s *Service) CreatePayPalSubscription(ctx context.Context, userID string, cycle types.BillingCycle) (*PayPalCheckoutResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is empty")
	}
	if _, ok := types.ParseBillingCycle(string(cycle)); !ok || cycle == types.BillingCycleMonthlyNoTrial {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCycle, cycle)
	}

	planID, err := s.cfg.PayPalPlanID(cycle)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("paypal_plan_misconfigured", "cycle", cycle, "error", err.Error())
		return nil, ErrMisconfigured
	}

	req := &paypal.CreateSubscriptionRequest{
		PlanID:   planID,
		CustomID: userID,
		ApplicationContext: paypal.ApplicationContext{
			BrandName:  s.cfg.PayPal.BrandName,
			ReturnURL:  s.cfg.PayPal.ReturnURL,
			CancelURL:  s.cfg.PayPal.CancelURL,
			UserAction: "SUBSCRIBE_NOW",
		},
	}
	req.ApplicationContext.PaymentMethod.PayeePreferred = "IMMEDIATE_PAYMENT_REQUIRED"

	sub, err := s.paypal.CreateSubscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRejected, err)
	}
	approve := sub.ApproveLink()
	if approve == "" {
		return nil, fmt.Errorf("%w: paypal response missing approve link", ErrProviderRejected)
	}
	return &PayPalCheckoutResult{ApproveURL: approve, SubscriptionID: sub.ID}, nil
}
