package webhook

import (
	"context"
	"errors"

	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

var (
	// ErrBadPayload marks a delivery whose body could not be parsed. Terminal:
	// nothing is forwarded and the provider gets a 400.
	ErrBadPayload = errors.New("malformed webhook payload")
	// ErrVerificationFailed marks a delivery that failed signature
	// verification. Terminal: the provider gets a 401 before any processing.
	ErrVerificationFailed = errors.New("webhook signature verification failed")
)

// EventParser is the provider adapter contract. Constructing a parser implies
// the delivery was already authenticated; Normalize translates the provider's
// event taxonomy into the internal vocabulary.
type EventParser interface {
	Provider() types.PaymentProvider
	EventID() string
	EventName() string
	// Normalize returns (nil, nil) for events that are deliberately dropped:
	// unknown types and one-time payments.
	Normalize(ctx context.Context) (*types.SubscriptionEvent, error)
	// Data returns the decoded payload for audit logging.
	Data() any
}
