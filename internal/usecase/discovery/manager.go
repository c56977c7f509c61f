package discovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/driftr-app/driftr-backend/internal/usecase/premium"
	"github.com/driftr-app/driftr-backend/internal/usecase/wave"
)

// Deps carries everything a session needs. Premium and Enricher may be nil;
// sessions then run free-tier and without icebreakers.
type Deps struct {
	Profiles repository.ProfileRepository
	Waves    repository.WaveRepository
	Counts   repository.WaveCountRepository
	Matches  repository.MatchRepository

	Premium  *premium.Checker
	Enricher *wave.Enricher
	Haptics  Haptics
	Log      *slog.Logger

	RadiusKm        float64
	MaxCandidates   int
	MatchRetries    int
	MatchRetryDelay time.Duration
}

// Manager hands out one Session per user and connection-mode filter,
// creating it on first use. Sessions are long-lived; entitlement is resolved
// once at creation and refreshed via SetPremium on purchase events.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
}

func NewManager(deps Deps) *Manager {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.RadiusKm <= 0 {
		deps.RadiusKm = domain.DefaultRadiusKm
	}
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// Session returns the user's session for the filter, creating it if needed.
func (m *Manager) Session(ctx context.Context, userID string, mode domain.ModeFilter) *Session {
	key := userID + "|" + string(mode)

	m.mu.Lock()
	if session, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return session
	}
	m.mu.Unlock()

	session := m.buildSession(ctx, userID, mode)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have built the session concurrently; first one wins.
	if existing, ok := m.sessions[key]; ok {
		return existing
	}
	m.sessions[key] = session
	return session
}

func (m *Manager) buildSession(ctx context.Context, userID string, mode domain.ModeFilter) *Session {
	isPremium := false
	if m.deps.Premium != nil {
		isPremium = m.deps.Premium.IsPremium(ctx, userID)
	}

	tracker := wave.NewTracker(userID, isPremium, m.deps.Counts, m.deps.Log)
	tracker.Refresh(ctx)

	nearby := NewService(m.deps.Profiles, userID, Options{
		RadiusKm: m.deps.RadiusKm,
		Mode:     mode,
		Limit:    m.deps.MaxCandidates,
	}, m.deps.Log)

	submitter := wave.NewSubmitter(m.deps.Waves, m.deps.Log)
	detector := wave.NewDetector(m.deps.Matches, m.deps.MatchRetries, m.deps.MatchRetryDelay, m.deps.Log)

	return NewSession(userID, mode, nearby, tracker, submitter, detector, m.deps.Enricher, m.deps.Haptics, m.deps.Log)
}

// SetPremium propagates an entitlement change to every live session of the
// user, e.g. right after checkout completes.
func (m *Manager) SetPremium(userID string, isPremium bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, filter := range []domain.ModeFilter{domain.FilterAll, domain.FilterDating, domain.FilterFriends} {
		if session, ok := m.sessions[userID+"|"+string(filter)]; ok {
			session.SetPremium(isPremium)
		}
	}
}

// Drop discards the user's sessions, e.g. on logout.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, filter := range []domain.ModeFilter{domain.FilterAll, domain.FilterDating, domain.FilterFriends} {
		delete(m.sessions, userID+"|"+string(filter))
	}
}
