package discovery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/usecase/wave"
)

type fakeWaves struct {
	mu      sync.Mutex
	created []domain.Wave
	block   chan struct{} // when set, Create waits on it
	started chan struct{} // closed when Create is entered, if set
}

func (f *fakeWaves) Create(ctx context.Context, w *domain.Wave) error {
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = "wave-1"
	w.CreatedAt = time.Now()
	f.created = append(f.created, *w)
	return nil
}

func (f *fakeWaves) Exists(ctx context.Context, fromUser, toUser string, mode domain.ConnectionMode) (bool, error) {
	return false, nil
}

func (f *fakeWaves) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeCounts struct {
	mu    sync.Mutex
	count int
}

func (f *fakeCounts) CountFor(ctx context.Context, userID, date string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *fakeCounts) Increment(ctx context.Context, userID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return nil
}

type fakeMatches struct {
	match *domain.Match
}

func (f *fakeMatches) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	return nil, domain.ErrMatchNotFound
}

func (f *fakeMatches) GetByUsers(ctx context.Context, userA, userB string, mode domain.ConnectionMode) (*domain.Match, error) {
	if f.match == nil {
		return nil, domain.ErrMatchNotFound
	}
	return f.match, nil
}

func (f *fakeMatches) ListForUser(ctx context.Context, userID string) ([]*domain.Match, error) {
	return nil, nil
}

func (f *fakeMatches) UpdateIcebreakers(ctx context.Context, matchID string, icebreakers []string) error {
	return nil
}

type fakeHaptics struct {
	mu       sync.Mutex
	triggers []Feedback
}

func (f *fakeHaptics) Trigger(fb Feedback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, fb)
}

func (f *fakeHaptics) has(fb Feedback) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, got := range f.triggers {
		if got == fb {
			return true
		}
	}
	return false
}

type sessionFixture struct {
	session *Session
	querier *fakeQuerier
	waves   *fakeWaves
	counts  *fakeCounts
	matches *fakeMatches
	haptics *fakeHaptics
}

func newFixture(t *testing.T, deck []domain.NearbyProfile) *sessionFixture {
	t.Helper()

	querier := &fakeQuerier{fn: func(context.Context, string, float64, float64, float64, domain.ConnectionMode, int) ([]domain.NearbyProfile, error) {
		return deck, nil
	}}
	waves := &fakeWaves{}
	counts := &fakeCounts{}
	matches := &fakeMatches{}
	haptics := &fakeHaptics{}
	log := testLogger()

	svc := NewService(querier, "me", Options{Mode: domain.FilterAll}, log)
	tracker := wave.NewTracker("me", false, counts, log)
	tracker.Refresh(context.Background())
	submitter := wave.NewSubmitter(waves, log)
	detector := wave.NewDetector(matches, 1, 0, log)

	return &sessionFixture{
		session: NewSession("me", domain.FilterAll, svc, tracker, submitter, detector, nil, haptics, log),
		querier: querier,
		waves:   waves,
		counts:  counts,
		matches: matches,
		haptics: haptics,
	}
}

func refresh(t *testing.T, f *sessionFixture) {
	t.Helper()
	if err := f.session.Refresh(context.Background(), domain.Coordinate{Latitude: 1, Longitude: 2}); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
}

func TestSessionPhases(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1)})

	if got := f.session.Snapshot().Phase; got != PhaseIdle {
		t.Fatalf("phase before first fetch = %q, want idle", got)
	}

	refresh(t, f)
	if got := f.session.Snapshot().Phase; got != PhaseReady {
		t.Fatalf("phase after refresh = %q, want ready", got)
	}

	if err := f.session.Skip(); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if got := f.session.Snapshot().Phase; got != PhaseExhausted {
		t.Fatalf("phase after last skip = %q, want exhausted", got)
	}
}

func TestSkipIsLocalOnly(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1), candidate("b", 2)})
	refresh(t, f)

	if err := f.session.Skip(); err != nil {
		t.Fatalf("skip failed: %v", err)
	}

	current, ok := f.session.Current()
	if !ok || current.ID != "b" {
		t.Fatalf("current after skip = %+v", current)
	}
	if f.waves.count() != 0 {
		t.Fatal("skip must not send anything")
	}
	if f.counts.count != 0 {
		t.Fatal("skip must not touch the wave counter")
	}
}

func TestSkipOnEmptyDeck(t *testing.T) {
	f := newFixture(t, nil)
	refresh(t, f)
	if err := f.session.Skip(); err != domain.ErrNoCandidate {
		t.Fatalf("skip on empty deck returned %v", err)
	}
}

func TestWaveWithoutMatchAdvances(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1), candidate("b", 2)})
	refresh(t, f)

	result, err := f.session.Wave(context.Background())
	if err != nil {
		t.Fatalf("wave failed: %v", err)
	}
	if result.Outcome != OutcomeWaved || result.Match != nil {
		t.Fatalf("unexpected result %+v", result)
	}

	if f.waves.count() != 1 {
		t.Fatalf("waves sent = %d, want 1", f.waves.count())
	}
	if f.counts.count != 1 {
		t.Fatalf("counter = %d, want 1", f.counts.count)
	}
	current, _ := f.session.Current()
	if current.ID != "b" {
		t.Fatalf("cursor did not advance, current = %q", current.ID)
	}
}

func TestWaveWithMatchCelebrates(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1), candidate("b", 2)})
	f.matches.match = &domain.Match{ID: "m1", UserA: "a", UserB: "me", Mode: domain.ModeFriends}
	refresh(t, f)

	result, err := f.session.Wave(context.Background())
	if err != nil {
		t.Fatalf("wave failed: %v", err)
	}
	if result.Outcome != OutcomeMatched || result.Match == nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Match.Profile.ID != "a" {
		t.Fatalf("celebration profile = %q, want the waved-at candidate", result.Match.Profile.ID)
	}
	if !f.haptics.has(FeedbackSuccess) {
		t.Fatal("expected success haptic on match")
	}

	// Celebration overlays the deck; the cursor advanced underneath.
	snap := f.session.Snapshot()
	if snap.Celebrating == nil {
		t.Fatal("expected celebration in snapshot")
	}
	if snap.Current == nil || snap.Current.ID != "b" {
		t.Fatalf("deck under celebration = %+v", snap.Current)
	}

	f.session.DismissCelebration()
	if f.session.Snapshot().Celebrating != nil {
		t.Fatal("celebration not cleared")
	}
}

func TestWaveAtLimitRedirectsToPaywall(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1)})
	f.counts.count = domain.FreeWaveLimit
	refresh(t, f)
	f.session.RefreshWaveLimit(context.Background())

	result, err := f.session.Wave(context.Background())
	if err != nil {
		t.Fatalf("wave returned error: %v", err)
	}
	if result.Outcome != OutcomePaywall {
		t.Fatalf("outcome = %q, want paywall", result.Outcome)
	}
	if f.waves.count() != 0 {
		t.Fatal("paywall redirect must not send a wave")
	}
	if current, _ := f.session.Current(); current.ID != "a" {
		t.Fatal("paywall redirect must not advance the deck")
	}
}

func TestPremiumBypassesLimit(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1)})
	f.counts.count = domain.FreeWaveLimit
	refresh(t, f)
	f.session.SetPremium(true)

	result, err := f.session.Wave(context.Background())
	if err != nil {
		t.Fatalf("wave failed: %v", err)
	}
	if result.Outcome != OutcomeWaved {
		t.Fatalf("outcome = %q, want waved", result.Outcome)
	}
}

func TestConcurrentWaveRejected(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1), candidate("b", 2)})
	refresh(t, f)

	f.waves.block = make(chan struct{})
	started := make(chan struct{})
	f.waves.started = started

	done := make(chan error, 1)
	go func() {
		_, err := f.session.Wave(context.Background())
		done <- err
	}()
	<-started

	if _, err := f.session.Wave(context.Background()); err != domain.ErrWaveInFlight {
		t.Fatalf("second wave returned %v, want ErrWaveInFlight", err)
	}

	close(f.waves.block)
	if err := <-done; err != nil {
		t.Fatalf("first wave failed: %v", err)
	}
}

func TestRefreshDuringWaveSkipsCursorAdvance(t *testing.T) {
	f := newFixture(t, []domain.NearbyProfile{candidate("a", 1), candidate("b", 2)})
	refresh(t, f)

	f.waves.block = make(chan struct{})
	started := make(chan struct{})
	f.waves.started = started

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.session.Wave(context.Background())
	}()
	<-started

	// A new deck lands while the wave is in flight.
	refresh(t, f)
	close(f.waves.block)
	<-done

	// The wave completed against the old deck; the new one starts at the top.
	current, ok := f.session.Current()
	if !ok || current.ID != "a" {
		t.Fatalf("current after mid-wave refresh = %+v", current)
	}
	if f.waves.count() != 1 {
		t.Fatalf("waves sent = %d, want 1", f.waves.count())
	}
}
