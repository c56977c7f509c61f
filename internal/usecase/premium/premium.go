package premium

import (
	"context"
	"log/slog"
	"time"

	"github.com/driftr-app/driftr-backend/internal/repository"
)

// BillingProvider reports subscription state from the payment processor.
type BillingProvider interface {
	HasActiveSubscription(ctx context.Context, customerID string) (bool, error)
}

// Checker decides premium entitlement. Policy, stated once for every caller:
// any failure to verify entitlement means NOT premium (fail-closed), so a
// billing outage can never hand out unlimited waves.
type Checker struct {
	profiles repository.ProfileRepository
	billing  BillingProvider
	now      func() time.Time
	log      *slog.Logger
}

func NewChecker(profiles repository.ProfileRepository, billing BillingProvider, log *slog.Logger) *Checker {
	return &Checker{
		profiles: profiles,
		billing:  billing,
		now:      time.Now,
		log:      log,
	}
}

// IsPremium reports whether the user currently holds an entitlement, from
// either a profile premium_until timestamp or an active subscription.
func (c *Checker) IsPremium(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}

	profile, err := c.profiles.GetByID(ctx, userID)
	if err != nil {
		c.log.Warn("premium check failed to load profile, treating as free tier", "user_id", userID, "error", err)
		return false
	}

	if profile.PremiumUntil != nil && profile.PremiumUntil.After(c.now()) {
		return true
	}

	if c.billing == nil || profile.StripeCustomerID == nil {
		return false
	}

	active, err := c.billing.HasActiveSubscription(ctx, *profile.StripeCustomerID)
	if err != nil {
		c.log.Warn("subscription lookup failed, treating as free tier", "user_id", userID, "error", err)
		return false
	}
	return active
}
