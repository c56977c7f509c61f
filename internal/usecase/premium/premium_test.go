package premium

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

// fakeProfiles implements repository.ProfileRepository; only GetByID matters here.
type fakeProfiles struct {
	profile *domain.Profile
	err     error
}

func (f *fakeProfiles) Create(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return f.profile, f.err
}
func (f *fakeProfiles) Update(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfiles) UpdateLocation(ctx context.Context, id string, lat, lng float64, name *string) error {
	return nil
}
func (f *fakeProfiles) Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error) {
	return nil, nil
}
func (f *fakeProfiles) ListBuilders(ctx context.Context, limit, offset int) ([]domain.BuilderProfile, error) {
	return nil, nil
}
func (f *fakeProfiles) GetBuilder(ctx context.Context, id string) (*domain.BuilderProfile, error) {
	return nil, domain.ErrProfileNotFound
}

type fakeBilling struct {
	active bool
	err    error
	calls  int
}

func (f *fakeBilling) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	f.calls++
	return f.active, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPremiumFromProfileTimestamp(t *testing.T) {
	until := time.Now().Add(time.Hour)
	c := NewChecker(&fakeProfiles{profile: &domain.Profile{ID: "u1", PremiumUntil: &until}}, nil, testLogger())

	if !c.IsPremium(context.Background(), "u1") {
		t.Fatal("expected premium from unexpired timestamp")
	}
}

func TestExpiredTimestampFallsThroughToBilling(t *testing.T) {
	until := time.Now().Add(-time.Hour)
	customer := "cus_123"
	billing := &fakeBilling{active: true}
	c := NewChecker(&fakeProfiles{profile: &domain.Profile{
		ID:               "u1",
		PremiumUntil:     &until,
		StripeCustomerID: &customer,
	}}, billing, testLogger())

	if !c.IsPremium(context.Background(), "u1") {
		t.Fatal("expected premium from active subscription")
	}
	if billing.calls != 1 {
		t.Fatalf("billing calls = %d, want 1", billing.calls)
	}
}

func TestProfileLoadFailureIsNotPremium(t *testing.T) {
	billing := &fakeBilling{active: true}
	c := NewChecker(&fakeProfiles{err: errors.New("db down")}, billing, testLogger())

	if c.IsPremium(context.Background(), "u1") {
		t.Fatal("verification failure must read as not premium")
	}
	if billing.calls != 0 {
		t.Fatal("billing must not be consulted when the profile fails to load")
	}
}

func TestBillingFailureIsNotPremium(t *testing.T) {
	customer := "cus_123"
	c := NewChecker(&fakeProfiles{profile: &domain.Profile{
		ID:               "u1",
		StripeCustomerID: &customer,
	}}, &fakeBilling{err: errors.New("stripe down")}, testLogger())

	if c.IsPremium(context.Background(), "u1") {
		t.Fatal("billing failure must read as not premium")
	}
}

func TestAnonymousIsNotPremium(t *testing.T) {
	c := NewChecker(&fakeProfiles{}, nil, testLogger())
	if c.IsPremium(context.Background(), "") {
		t.Fatal("anonymous user can never be premium")
	}
}
