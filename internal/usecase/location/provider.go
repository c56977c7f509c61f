package location

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

// PositionSource yields the device's current coordinates. Implementations
// return domain.ErrPermissionDenied when the user has not granted access.
type PositionSource interface {
	Current(ctx context.Context) (domain.Coordinate, error)
}

// ClientReport is a PositionSource fed by a device's self-reported fix. A
// denied report maps to the permission error; a report with no coordinate
// means the device failed to produce a fix.
type ClientReport struct {
	Coord  *domain.Coordinate
	Denied bool
}

func (r ClientReport) Current(ctx context.Context) (domain.Coordinate, error) {
	if r.Denied {
		return domain.Coordinate{}, domain.ErrPermissionDenied
	}
	if r.Coord == nil {
		return domain.Coordinate{}, errors.New("no position fix")
	}
	return *r.Coord, nil
}

// Geocoder resolves a coordinate into a human-readable place.
type Geocoder interface {
	Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error)
}

// State is the provider's externally visible snapshot. Coordinate stays nil
// until a fetch resolves; Err holds the human-readable failure, if any.
type State struct {
	Coordinate   *domain.Coordinate `json:"coordinate"`
	LocationName string             `json:"location_name"`
	Err          string             `json:"error,omitempty"`
	Loading      bool               `json:"loading"`
}

// Provider acquires coordinates and a place name. Geocoding is best-effort:
// its failure never fails the fetch, the name just stays empty.
type Provider struct {
	mu       sync.Mutex
	source   PositionSource
	geocoder Geocoder
	log      *slog.Logger
	state    State
}

func NewProvider(source PositionSource, geocoder Geocoder, log *slog.Logger) *Provider {
	return &Provider{
		source:   source,
		geocoder: geocoder,
		log:      log,
		state:    State{Loading: true},
	}
}

// RequestLocation fetches the current position and reverse-geocodes it. Safe
// to call again to retry after a denial or failure.
func (p *Provider) RequestLocation(ctx context.Context) State {
	p.mu.Lock()
	p.state.Loading = true
	p.state.Err = ""
	p.mu.Unlock()

	coord, err := p.source.Current(ctx)
	if err != nil {
		msg := "Failed to get location"
		if errors.Is(err, domain.ErrPermissionDenied) {
			msg = domain.ErrPermissionDenied.Error()
		}
		p.mu.Lock()
		p.state.Err = msg
		p.state.Loading = false
		state := p.state
		p.mu.Unlock()
		return state
	}

	name := ""
	place, err := p.geocoder.Reverse(ctx, coord)
	if err != nil {
		p.log.Warn("reverse geocode failed", "error", err)
	} else {
		name = place.DisplayName()
	}

	p.mu.Lock()
	p.state = State{
		Coordinate:   &coord,
		LocationName: name,
		Loading:      false,
	}
	state := p.state
	p.mu.Unlock()
	return state
}

// Snapshot returns the current state without triggering a fetch.
func (p *Provider) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
