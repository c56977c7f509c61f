package discovery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/observability"
	"github.com/driftr-app/driftr-backend/internal/usecase/wave"
)

// Phase is the session's primary lifecycle state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseReady     Phase = "ready"
	PhaseExhausted Phase = "exhausted"
)

// Outcome classifies what a wave attempt produced.
type Outcome string

const (
	OutcomeWaved   Outcome = "waved"
	OutcomeMatched Outcome = "matched"
	OutcomePaywall Outcome = "paywall"
)

// Feedback strengths for the haptics collaborator.
type Feedback int

const (
	FeedbackLight Feedback = iota
	FeedbackMedium
	FeedbackSuccess
)

// Haptics fires device feedback. NopHaptics serves headless callers.
type Haptics interface {
	Trigger(f Feedback)
}

type NopHaptics struct{}

func (NopHaptics) Trigger(Feedback) {}

// MatchEvent pairs a fresh match with the candidate profile it came from, so
// the celebration overlay can render without another profile fetch.
type MatchEvent struct {
	Match   domain.Match         `json:"match"`
	Profile domain.NearbyProfile `json:"profile"`
}

// WaveResult reports a wave attempt. A paywall outcome means the attempt was
// rejected before dispatch and nothing was sent.
type WaveResult struct {
	Outcome Outcome     `json:"outcome"`
	Match   *MatchEvent `json:"match,omitempty"`
}

// Session drives one user's discovery deck for one connection mode. It owns
// the candidate queue and cursor, runs the wave pipeline strictly in order
// (admission check, submit, increment, match lookup), and layers a match
// celebration on top of whatever phase the deck is in.
//
// Celebration is an overlay, not a phase: dismissing it returns to the deck
// exactly where it was.
type Session struct {
	mu     sync.Mutex
	userID string
	mode   domain.ModeFilter

	nearby    *Service
	limiter   *wave.Tracker
	submitter *wave.Submitter
	detector  *wave.Detector
	enricher  *wave.Enricher
	haptics   Haptics
	log       *slog.Logger

	queue       []domain.NearbyProfile
	cursor      int
	queueGen    uint64
	fetched     bool
	loading     bool
	celebrating *MatchEvent
	processing  bool
}

func NewSession(
	userID string,
	mode domain.ModeFilter,
	nearby *Service,
	limiter *wave.Tracker,
	submitter *wave.Submitter,
	detector *wave.Detector,
	enricher *wave.Enricher,
	haptics Haptics,
	log *slog.Logger,
) *Session {
	if haptics == nil {
		haptics = NopHaptics{}
	}
	return &Session{
		userID:    userID,
		mode:      mode,
		nearby:    nearby,
		limiter:   limiter,
		submitter: submitter,
		detector:  detector,
		enricher:  enricher,
		haptics:   haptics,
		log:       log,
	}
}

// Refresh rebuilds the deck from a fresh proximity query and resets the
// cursor. A failed fetch keeps the existing queue and cursor so the user can
// continue with what they already had.
func (s *Session) Refresh(ctx context.Context, coord domain.Coordinate) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	profiles, err := s.nearby.FetchNearby(ctx, coord.Latitude, coord.Longitude)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.fetched = true
	if err != nil {
		return err
	}

	s.queue = profiles
	s.cursor = 0
	s.queueGen++
	return nil
}

// Current returns the candidate under the cursor, if any.
func (s *Session) Current() (domain.NearbyProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Session) currentLocked() (domain.NearbyProfile, bool) {
	if s.cursor < len(s.queue) {
		return s.queue[s.cursor], true
	}
	return domain.NearbyProfile{}, false
}

// Skip advances past the current candidate. Purely local: nothing is sent,
// nothing is recorded, and a skipped profile can reappear on the next refresh.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.currentLocked(); !ok {
		return domain.ErrNoCandidate
	}
	s.cursor++
	s.haptics.Trigger(FeedbackLight)
	return nil
}

// Wave runs the full pipeline against the current candidate. The candidate is
// snapshotted up front: everything downstream, including the celebration, is
// about that profile even if the deck refreshes mid-flight. The cursor only
// advances if the queue is still the one the wave was taken from.
func (s *Session) Wave(ctx context.Context) (WaveResult, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return WaveResult{}, domain.ErrWaveInFlight
	}
	candidate, ok := s.currentLocked()
	if !ok {
		s.mu.Unlock()
		return WaveResult{}, domain.ErrNoCandidate
	}
	gen := s.queueGen

	// Admission is re-validated here, at dispatch time, not at render time.
	if !s.limiter.CanWave() {
		s.mu.Unlock()
		observability.WaveLimitRejections.Inc()
		return WaveResult{Outcome: OutcomePaywall}, nil
	}
	s.processing = true
	s.mu.Unlock()

	s.haptics.Trigger(FeedbackMedium)
	mode := s.mode.DispatchMode()

	if _, err := s.submitter.SendWave(ctx, s.userID, candidate.ID, mode); err != nil {
		s.abortWave()
		return WaveResult{}, err
	}

	if err := s.limiter.IncrementWave(ctx); err != nil {
		s.log.Warn("wave counter increment failed after dispatch", "user_id", s.userID, "error", err)
		s.abortWave()
		return WaveResult{}, err
	}

	match := s.detector.Detect(ctx, s.userID, candidate.ID, mode)

	s.mu.Lock()
	s.processing = false
	if s.queueGen == gen {
		s.cursor++
	}
	result := WaveResult{Outcome: OutcomeWaved}
	if match != nil {
		event := &MatchEvent{Match: *match, Profile: candidate}
		s.celebrating = event
		result = WaveResult{Outcome: OutcomeMatched, Match: event}
	}
	s.mu.Unlock()

	if match != nil {
		s.haptics.Trigger(FeedbackSuccess)
		go s.enricher.Enrich(match)
	}
	return result, nil
}

// abortWave releases the in-flight guard without advancing: a failed wave
// leaves the candidate on screen for a retry.
func (s *Session) abortWave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}

// RefreshWaveLimit re-reads today's usage from the counter store.
func (s *Session) RefreshWaveLimit(ctx context.Context) wave.Snapshot {
	return s.limiter.Refresh(ctx)
}

// SetPremium propagates an entitlement change into admission control.
func (s *Session) SetPremium(isPremium bool) {
	s.limiter.SetPremium(isPremium)
}

// DismissCelebration clears the overlay. The deck underneath is unchanged.
func (s *Session) DismissCelebration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.celebrating = nil
}

// SessionState is the session's externally visible snapshot.
type SessionState struct {
	Phase       Phase                 `json:"phase"`
	Current     *domain.NearbyProfile `json:"current,omitempty"`
	Remaining   int                   `json:"remaining"`
	Celebrating *MatchEvent           `json:"celebrating,omitempty"`
	WaveLimit   wave.Snapshot         `json:"wave_limit"`
}

func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Phase:       s.phaseLocked(),
		Celebrating: s.celebrating,
		WaveLimit:   s.limiter.Snapshot(),
	}
	if current, ok := s.currentLocked(); ok {
		state.Current = &current
		state.Remaining = len(s.queue) - s.cursor
	}
	return state
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.loading:
		return PhaseLoading
	case !s.fetched:
		return PhaseIdle
	case s.cursor >= len(s.queue):
		return PhaseExhausted
	default:
		return PhaseReady
	}
}
