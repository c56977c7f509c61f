package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrCannotWaveSelf rejects a wave directed at the sender's own profile.
	ErrCannotWaveSelf = errors.New("cannot wave at yourself")

	// ErrIncrementInFlight rejects a counter increment while another one for
	// the same user has not resolved yet.
	ErrIncrementInFlight = errors.New("wave count increment already in flight")

	// ErrWaveInFlight rejects a wave action while the previous one for the
	// same session is still being processed.
	ErrWaveInFlight = errors.New("wave already in flight")

	ErrNoCandidate = errors.New("no candidate at cursor")

	// ErrPermissionDenied is the terminal location-permission state; it clears
	// only when the user retries.
	ErrPermissionDenied = errors.New("Location permission denied")

	ErrNotMatchParticipant = errors.New("user is not part of this match")
	ErrSelfReview          = errors.New("cannot review yourself")
)
