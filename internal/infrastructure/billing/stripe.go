package billing

import (
	"context"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/subscription"
)

// StripeClient answers whether a customer holds an active subscription. It is
// the billing-provider side of the premium entitlement check.
type StripeClient struct{}

// NewStripeClient initializes the stripe client with the given API key.
func NewStripeClient(apiKey string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{}
}

// HasActiveSubscription reports whether the customer has at least one active
// or trialing subscription.
func (s *StripeClient) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Filters.AddFilter("status", "", "all")

	iter := subscription.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
			return true, nil
		}
	}
	return false, iter.Err()
}
