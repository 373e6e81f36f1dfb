package checkout

import (
	"context"
	"fmt"

	"github.com/DishIs/temp-mail-sub000/pkg/logctx"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// ResolvePaddlePrice picks the price id the client-side Paddle.js overlay
// opens. No server-side session is created. A user who already consumed their
// trial gets the no-trial monthly price; monthly_no_trial requests it
// directly.
func (s *Service) ResolvePaddlePrice(ctx context.Context, userID string, cycle types.BillingCycle) (*PaddleCheckoutResult, error) {
	switch cycle {
	case types.BillingCycleMonthly, types.BillingCycleMonthlyNoTrial, types.BillingCycleYearly:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCycle, cycle)
	}

	withTrial := true
	if cycle == types.BillingCycleMonthly && userID != "" {
		status, err := s.status.GetUserStatus(ctx, userID)
		if err != nil {
			// Trial lookup is advisory; default to the trial price rather
			// than blocking checkout on a backend hiccup.
			logctx.FromCtx(ctx, s.log).Warnw("user_status_lookup_failed", "user_id", userID, "error", err.Error())
		} else if status.TrialConsumed {
			withTrial = false
		}
	}

	priceID, err := s.cfg.PaddlePriceID(cycle, withTrial)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("paddle_price_misconfigured", "cycle", cycle, "error", err.Error())
		return nil, ErrMisconfigured
	}
	return &PaddleCheckoutResult{PriceID: priceID, Environment: s.cfg.Paddle.Environment}, nil
}

// CreatePortalSession opens a Paddle customer portal for subscription
// management.
func (s *Service) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	status, err := s.status.GetUserStatus(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve paddle customer: %w", err)
	}
	if status.PaddleCustomerID == "" {
		return "", fmt.Errorf("user %s has no paddle customer id", userID)
	}
	return s.portals.CreatePortalSession(ctx, status.PaddleCustomerID)
}
