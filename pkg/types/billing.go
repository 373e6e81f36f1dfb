package types

type PaymentProvider string

const (
	PaymentProviderPayPal PaymentProvider = "paypal"
	PaymentProviderPaddle PaymentProvider = "paddle"
)

// BillingCycle is selected by the user before checkout and maps 1:1 to a
// provider price/plan identifier via static configuration. Immutable once a
// subscription exists.
type BillingCycle string

const (
	BillingCycleWeekly         BillingCycle = "weekly"
	BillingCycleMonthly        BillingCycle = "monthly"
	BillingCycleMonthlyNoTrial BillingCycle = "monthly_no_trial"
	BillingCycleYearly         BillingCycle = "yearly"
)

func ParseBillingCycle(s string) (BillingCycle, bool) {
	switch BillingCycle(s) {
	case BillingCycleWeekly, BillingCycleMonthly, BillingCycleMonthlyNoTrial, BillingCycleYearly:
		return BillingCycle(s), true
	}
	return "", false
}
