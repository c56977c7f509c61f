package discovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/observability"
)

// NearbyQuerier is the proximity RPC contract: candidates within radiusKm of
// the coordinates, annotated with distance, ordered by the server.
type NearbyQuerier interface {
	Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error)
}

// Options control a proximity query. A zero Limit means no truncation beyond
// what the server applies.
type Options struct {
	RadiusKm float64
	Mode     domain.ModeFilter
	Limit    int
}

// Service wraps the proximity query with the state the discovery surfaces
// rely on: the last good candidate list survives failed fetches, and when
// fetches race, the last call wins. Responses carrying a stale generation
// are discarded instead of overwriting newer state.
type Service struct {
	mu         sync.Mutex
	querier    NearbyQuerier
	userID     string
	opts       Options
	generation uint64
	profiles   []domain.NearbyProfile
	loading    bool
	errMsg     string
	log        *slog.Logger
}

func NewService(querier NearbyQuerier, userID string, opts Options, log *slog.Logger) *Service {
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = domain.DefaultRadiusKm
	}
	if opts.Mode == "" {
		opts.Mode = domain.FilterAll
	}
	return &Service{
		querier: querier,
		userID:  userID,
		opts:    opts,
		log:     log,
	}
}

// SetOptions replaces radius and mode. Changing either requires a full
// re-fetch by the caller; the existing queue is never filtered in place.
func (s *Service) SetOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.RadiusKm > 0 {
		s.opts.RadiusKm = opts.RadiusKm
	}
	if opts.Mode != "" {
		s.opts.Mode = opts.Mode
	}
	s.opts.Limit = opts.Limit
}

// FetchNearby runs the proximity query for the coordinates. An "all" filter
// dispatches as "friends", preserving current product behavior. On failure
// the previous list is returned untouched alongside the error.
func (s *Service) FetchNearby(ctx context.Context, lat, lng float64) ([]domain.NearbyProfile, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	opts := s.opts
	userID := s.userID
	s.mu.Unlock()

	mode := opts.Mode.DispatchMode()
	limit := opts.Limit
	if limit <= 0 {
		limit = domain.MaxMapPins * 2
	}

	start := time.Now()
	profiles, err := s.querier.Nearby(ctx, userID, lat, lng, opts.RadiusKm, mode, limit)
	observability.NearbyQueryDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer fetch superseded this one; its result owns the state.
		return s.profiles, nil
	}

	s.loading = false
	if err != nil {
		s.errMsg = "Failed to fetch nearby profiles"
		s.log.Warn("proximity query failed", "user_id", userID, "error", err)
		return s.profiles, err
	}

	// Defensive self-exclusion on top of the server-side guarantee: a
	// proximity-query bug must never surface the caller's own profile.
	filtered := profiles[:0]
	for _, p := range profiles {
		if p.ID != userID {
			filtered = append(filtered, p)
		}
	}

	s.profiles = filtered
	s.errMsg = ""
	return s.profiles, nil
}

// State is the service's externally visible snapshot.
type State struct {
	Profiles []domain.NearbyProfile `json:"profiles"`
	Loading  bool                   `json:"loading"`
	Err      string                 `json:"error,omitempty"`
}

func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Profiles: s.profiles, Loading: s.loading, Err: s.errMsg}
}
