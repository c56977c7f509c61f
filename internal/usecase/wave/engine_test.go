package wave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

// fakeWaves implements repository.WaveRepository.
type fakeWaves struct {
	created []domain.Wave
	err     error
}

func (f *fakeWaves) Create(ctx context.Context, w *domain.Wave) error {
	if f.err != nil {
		return f.err
	}
	w.ID = "wave-1"
	w.CreatedAt = time.Now()
	f.created = append(f.created, *w)
	return nil
}

func (f *fakeWaves) Exists(ctx context.Context, fromUser, toUser string, mode domain.ConnectionMode) (bool, error) {
	return len(f.created) > 0, nil
}

// fakeMatches implements repository.MatchRepository.
type fakeMatches struct {
	match       *domain.Match
	failFirst   int // GetByUsers errors this many times before answering
	lookupCalls int
	icebreakers []string
}

func (f *fakeMatches) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	if f.match != nil && f.match.ID == id {
		return f.match, nil
	}
	return nil, domain.ErrMatchNotFound
}

func (f *fakeMatches) GetByUsers(ctx context.Context, userA, userB string, mode domain.ConnectionMode) (*domain.Match, error) {
	f.lookupCalls++
	if f.lookupCalls <= f.failFirst {
		return nil, errors.New("transient")
	}
	if f.match == nil {
		return nil, domain.ErrMatchNotFound
	}
	return f.match, nil
}

func (f *fakeMatches) ListForUser(ctx context.Context, userID string) ([]*domain.Match, error) {
	return nil, nil
}

func (f *fakeMatches) UpdateIcebreakers(ctx context.Context, matchID string, icebreakers []string) error {
	f.icebreakers = icebreakers
	return nil
}

func TestSendWaveRejectsSelf(t *testing.T) {
	s := NewSubmitter(&fakeWaves{}, testLogger())
	if _, err := s.SendWave(context.Background(), "u1", "u1", domain.ModeDating); !errors.Is(err, domain.ErrCannotWaveSelf) {
		t.Fatalf("got %v, want ErrCannotWaveSelf", err)
	}
}

func TestSendWaveRejectsInvalidMode(t *testing.T) {
	s := NewSubmitter(&fakeWaves{}, testLogger())
	if _, err := s.SendWave(context.Background(), "u1", "u2", "all"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestSendWaveCreates(t *testing.T) {
	waves := &fakeWaves{}
	s := NewSubmitter(waves, testLogger())

	w, err := s.SendWave(context.Background(), "u1", "u2", domain.ModeFriends)
	if err != nil {
		t.Fatalf("SendWave failed: %v", err)
	}
	if w.ID == "" {
		t.Fatal("wave ID not set")
	}
	if len(waves.created) != 1 || waves.created[0].ToUser != "u2" {
		t.Fatalf("unexpected stored waves: %+v", waves.created)
	}
}

func TestSendWaveIdempotent(t *testing.T) {
	waves := &fakeWaves{}
	s := NewSubmitter(waves, testLogger())

	if _, err := s.SendWave(context.Background(), "u1", "u2", domain.ModeFriends); err != nil {
		t.Fatalf("first wave failed: %v", err)
	}
	if _, err := s.SendWave(context.Background(), "u1", "u2", domain.ModeFriends); err != nil {
		t.Fatalf("repeat wave failed: %v", err)
	}
	if len(waves.created) != 1 {
		t.Fatalf("stored %d waves, want 1", len(waves.created))
	}
}

func TestDetectFindsMatchImmediately(t *testing.T) {
	matches := &fakeMatches{match: &domain.Match{ID: "m1", UserA: "u1", UserB: "u2", Mode: domain.ModeDating}}
	d := NewDetector(matches, 3, time.Millisecond, testLogger())

	m := d.Detect(context.Background(), "u1", "u2", domain.ModeDating)
	if m == nil || m.ID != "m1" {
		t.Fatalf("Detect = %+v, want m1", m)
	}
	if matches.lookupCalls != 1 {
		t.Fatalf("lookups = %d, want 1", matches.lookupCalls)
	}
}

func TestDetectRetriesThroughTransientErrors(t *testing.T) {
	matches := &fakeMatches{
		match:     &domain.Match{ID: "m1", UserA: "u1", UserB: "u2", Mode: domain.ModeDating},
		failFirst: 2,
	}
	d := NewDetector(matches, 3, time.Millisecond, testLogger())

	m := d.Detect(context.Background(), "u1", "u2", domain.ModeDating)
	if m == nil {
		t.Fatal("expected match after retries")
	}
	if matches.lookupCalls != 3 {
		t.Fatalf("lookups = %d, want 3", matches.lookupCalls)
	}
}

func TestDetectGivesUpAfterBudget(t *testing.T) {
	matches := &fakeMatches{} // no match ever
	d := NewDetector(matches, 3, time.Millisecond, testLogger())

	if m := d.Detect(context.Background(), "u1", "u2", domain.ModeDating); m != nil {
		t.Fatalf("Detect = %+v, want nil", m)
	}
	if matches.lookupCalls != 3 {
		t.Fatalf("lookups = %d, want 3", matches.lookupCalls)
	}
}

func TestDetectStopsOnCancelledContext(t *testing.T) {
	matches := &fakeMatches{failFirst: 100}
	d := NewDetector(matches, 5, 50*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if m := d.Detect(ctx, "u1", "u2", domain.ModeDating); m != nil {
		t.Fatal("expected nil on cancelled context")
	}
	if time.Since(start) > 40*time.Millisecond {
		t.Fatal("Detect kept retrying after cancellation")
	}
}
