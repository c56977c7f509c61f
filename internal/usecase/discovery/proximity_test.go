package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

// fakeQuerier implements NearbyQuerier via a swappable func.
type fakeQuerier struct {
	fn func(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error)
}

func (f *fakeQuerier) Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error) {
	return f.fn(ctx, userID, lat, lng, radiusKm, mode, limit)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func candidate(id string, distanceKm float64) domain.NearbyProfile {
	return domain.NearbyProfile{
		Profile:    domain.Profile{ID: id, Name: "n-" + id},
		DistanceKm: distanceKm,
	}
}

func TestFetchDispatchesAllAsFriends(t *testing.T) {
	var gotMode domain.ConnectionMode
	q := &fakeQuerier{fn: func(_ context.Context, _ string, _, _, _ float64, mode domain.ConnectionMode, _ int) ([]domain.NearbyProfile, error) {
		gotMode = mode
		return nil, nil
	}}
	s := NewService(q, "me", Options{Mode: domain.FilterAll}, testLogger())

	if _, err := s.FetchNearby(context.Background(), 1, 2); err != nil {
		t.Fatalf("FetchNearby failed: %v", err)
	}
	if gotMode != domain.ModeFriends {
		t.Fatalf("dispatched mode = %q, want %q", gotMode, domain.ModeFriends)
	}

	s.SetOptions(Options{Mode: domain.FilterDating})
	s.FetchNearby(context.Background(), 1, 2)
	if gotMode != domain.ModeDating {
		t.Fatalf("dispatched mode = %q, want %q", gotMode, domain.ModeDating)
	}
}

func TestFetchFailureRetainsPreviousList(t *testing.T) {
	var fail atomic.Bool
	q := &fakeQuerier{fn: func(_ context.Context, _ string, _, _, _ float64, _ domain.ConnectionMode, _ int) ([]domain.NearbyProfile, error) {
		if fail.Load() {
			return nil, errors.New("network down")
		}
		return []domain.NearbyProfile{candidate("a", 2), candidate("b", 5)}, nil
	}}
	s := NewService(q, "me", Options{}, testLogger())

	if _, err := s.FetchNearby(context.Background(), 1, 2); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	fail.Store(true)
	profiles, err := s.FetchNearby(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if len(profiles) != 2 {
		t.Fatalf("retained %d profiles, want 2", len(profiles))
	}
	snap := s.Snapshot()
	if len(snap.Profiles) != 2 || snap.Err == "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestFetchFiltersSelf(t *testing.T) {
	q := &fakeQuerier{fn: func(_ context.Context, _ string, _, _, _ float64, _ domain.ConnectionMode, _ int) ([]domain.NearbyProfile, error) {
		return []domain.NearbyProfile{candidate("me", 0), candidate("a", 2)}, nil
	}}
	s := NewService(q, "me", Options{}, testLogger())

	profiles, err := s.FetchNearby(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "a" {
		t.Fatalf("self not filtered: %+v", profiles)
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	q := &fakeQuerier{fn: func(_ context.Context, _ string, _, _, _ float64, _ domain.ConnectionMode, _ int) ([]domain.NearbyProfile, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-release
			return []domain.NearbyProfile{candidate("old", 1)}, nil
		}
		return []domain.NearbyProfile{candidate("new", 1)}, nil
	}}
	s := NewService(q, "me", Options{}, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.FetchNearby(context.Background(), 1, 2)
	}()
	<-firstStarted

	// The second call completes while the first is still parked.
	if _, err := s.FetchNearby(context.Background(), 3, 4); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	close(release)
	<-done

	snap := s.Snapshot()
	if len(snap.Profiles) != 1 || snap.Profiles[0].ID != "new" {
		t.Fatalf("stale result overwrote newer one: %+v", snap.Profiles)
	}
}
