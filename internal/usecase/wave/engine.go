package wave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/observability"
	"github.com/driftr-app/driftr-backend/internal/repository"
)

// Submitter records one-directional interest signals. It does not re-check
// the daily limit: that gate belongs to the orchestrator, which validates
// admission immediately before calling here.
type Submitter struct {
	waves repository.WaveRepository
	log   *slog.Logger
}

func NewSubmitter(waves repository.WaveRepository, log *slog.Logger) *Submitter {
	return &Submitter{waves: waves, log: log}
}

func (s *Submitter) SendWave(ctx context.Context, fromUser, toUser string, mode domain.ConnectionMode) (*domain.Wave, error) {
	if fromUser == toUser {
		return nil, domain.ErrCannotWaveSelf
	}
	if !mode.Valid() {
		return nil, domain.ErrInvalidInput
	}

	w := &domain.Wave{
		FromUser: fromUser,
		ToUser:   toUser,
		Mode:     mode,
	}

	// Re-waving at someone already waved at (after a deck refresh, say) is a
	// no-op, not a constraint violation.
	already, err := s.waves.Exists(ctx, fromUser, toUser, mode)
	if err != nil {
		return nil, err
	}
	if already {
		return w, nil
	}

	if err := s.waves.Create(ctx, w); err != nil {
		return nil, err
	}
	observability.WavesTotal.WithLabelValues(string(mode)).Inc()
	return w, nil
}

// Detector looks for a match after a wave lands. The match row is written by
// the backend trigger, which may lag the wave insert by a moment, so the
// lookup retries a bounded number of times before concluding "no match yet".
// A lookup error is also "no match yet": a false negative is acceptable, a
// false positive is not.
type Detector struct {
	matches  repository.MatchRepository
	attempts int
	delay    time.Duration
	log      *slog.Logger
}

func NewDetector(matches repository.MatchRepository, attempts int, delay time.Duration, log *slog.Logger) *Detector {
	if attempts < 1 {
		attempts = 1
	}
	return &Detector{matches: matches, attempts: attempts, delay: delay, log: log}
}

// Detect returns the match between the two users for the mode, or nil.
func (d *Detector) Detect(ctx context.Context, userA, userB string, mode domain.ConnectionMode) *domain.Match {
	for attempt := 0; attempt < d.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(d.delay):
			case <-ctx.Done():
				return nil
			}
		}

		match, err := d.matches.GetByUsers(ctx, userA, userB, mode)
		if err == nil {
			observability.MatchesTotal.WithLabelValues(string(mode)).Inc()
			return match
		}
		if !errors.Is(err, domain.ErrMatchNotFound) {
			d.log.Warn("match lookup failed, treating as no match", "error", err)
		}
	}
	return nil
}

// IcebreakerSource generates opening-message suggestions for a fresh match.
type IcebreakerSource interface {
	GenerateIcebreakers(ctx context.Context, nameA, bioA, nameB, bioB string) ([]string, error)
}

// Enricher attaches generated icebreakers to a match. Entirely best-effort:
// a nil enricher or any failure leaves the match as-is.
type Enricher struct {
	profiles repository.ProfileRepository
	matches  repository.MatchRepository
	source   IcebreakerSource
	timeout  time.Duration
	log      *slog.Logger
}

func NewEnricher(profiles repository.ProfileRepository, matches repository.MatchRepository, source IcebreakerSource, log *slog.Logger) *Enricher {
	return &Enricher{
		profiles: profiles,
		matches:  matches,
		source:   source,
		timeout:  15 * time.Second,
		log:      log,
	}
}

func (e *Enricher) Enrich(match *domain.Match) {
	if e == nil || e.source == nil || match == nil || len(match.Icebreakers) > 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	a, err := e.profiles.GetByID(ctx, match.UserA)
	if err != nil {
		e.log.Warn("icebreaker enrichment skipped", "match_id", match.ID, "error", err)
		return
	}
	b, err := e.profiles.GetByID(ctx, match.UserB)
	if err != nil {
		e.log.Warn("icebreaker enrichment skipped", "match_id", match.ID, "error", err)
		return
	}

	icebreakers, err := e.source.GenerateIcebreakers(ctx, a.Name, deref(a.Bio), b.Name, deref(b.Bio))
	if err != nil || len(icebreakers) == 0 {
		e.log.Warn("icebreaker generation failed", "match_id", match.ID, "error", err)
		return
	}

	if err := e.matches.UpdateIcebreakers(ctx, match.ID, icebreakers); err != nil {
		e.log.Warn("failed to store icebreakers", "match_id", match.ID, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
