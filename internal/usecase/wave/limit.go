package wave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
)

// Snapshot is the tracker's externally visible state.
type Snapshot struct {
	Used      int    `json:"waves_used"`
	Remaining int    `json:"waves_remaining"`
	Unlimited bool   `json:"unlimited"`
	CanWave   bool   `json:"can_wave"`
	Loading   bool   `json:"loading"`
	Err       string `json:"error,omitempty"`
}

// Tracker mirrors the server's daily wave counter for admission control.
// The server is the source of truth; the tracker applies a single-writer
// rule so rapid double-taps can't interleave optimistic increments: only the
// resolved response of an in-flight increment mutates the local count, and a
// second increment attempted while one is pending is rejected outright.
type Tracker struct {
	mu       sync.Mutex
	userID   string
	premium  bool
	counts   repository.WaveCountRepository
	now      func() time.Time
	log      *slog.Logger
	used     int
	loading  bool
	errMsg   string
	inflight bool
}

func NewTracker(userID string, premium bool, counts repository.WaveCountRepository, log *slog.Logger) *Tracker {
	return &Tracker{
		userID:  userID,
		premium: premium,
		counts:  counts,
		now:     time.Now,
		log:     log,
		loading: true,
	}
}

// Refresh loads today's usage. With no authenticated user, or for a premium
// user, no read happens at all: loading just flips off with zero usage.
func (t *Tracker) Refresh(ctx context.Context) Snapshot {
	t.mu.Lock()
	userID, premium := t.userID, t.premium
	t.mu.Unlock()

	if userID == "" || premium {
		t.mu.Lock()
		t.loading = false
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap
	}

	count, err := t.counts.CountFor(ctx, userID, domain.WaveDay(t.now()))

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		t.errMsg = "Failed to fetch wave count"
		t.log.Warn("wave count fetch failed", "user_id", userID, "error", err)
		return t.snapshotLocked()
	}
	t.used = count
	t.errMsg = ""
	return t.snapshotLocked()
}

// SetPremium updates the entitlement, e.g. after a purchase completes.
func (t *Tracker) SetPremium(premium bool) {
	t.mu.Lock()
	t.premium = premium
	t.mu.Unlock()
}

// CanWave re-validates admission against the latest known local count. Call
// this immediately before dispatching each wave, not once at render time.
func (t *Tracker) CanWave() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canWaveLocked()
}

func (t *Tracker) canWaveLocked() bool {
	if t.premium {
		return true
	}
	return t.remainingLocked() > 0
}

func (t *Tracker) remainingLocked() int {
	remaining := domain.FreeWaveLimit - t.used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IncrementWave asks the server to bump today's counter and applies the
// optimistic +1 only after the server acknowledges. A failure leaves the
// local count untouched and is returned so the caller can roll back.
func (t *Tracker) IncrementWave(ctx context.Context) error {
	t.mu.Lock()
	if t.userID == "" {
		t.mu.Unlock()
		return nil
	}
	if t.inflight {
		t.mu.Unlock()
		return domain.ErrIncrementInFlight
	}
	t.inflight = true
	userID := t.userID
	t.mu.Unlock()

	err := t.counts.Increment(ctx, userID, domain.WaveDay(t.now()))

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inflight = false
	if err != nil {
		t.errMsg = "Failed to increment wave"
		return err
	}
	t.used++
	t.errMsg = ""
	return nil
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		Used:    t.used,
		Loading: t.loading,
		Err:     t.errMsg,
	}
	if t.premium {
		snap.Unlimited = true
		snap.Remaining = 0
		snap.CanWave = true
		return snap
	}
	snap.Remaining = t.remainingLocked()
	snap.CanWave = snap.Remaining > 0
	return snap
}
