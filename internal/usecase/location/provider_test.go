package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

type fakeSource struct {
	coord domain.Coordinate
	err   error
}

func (f *fakeSource) Current(ctx context.Context) (domain.Coordinate, error) {
	return f.coord, f.err
}

type fakeGeocoder struct {
	place domain.Place
	err   error
}

func (f *fakeGeocoder) Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	return f.place, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestLocationSuccess(t *testing.T) {
	p := NewProvider(
		&fakeSource{coord: domain.Coordinate{Latitude: 45.5, Longitude: -122.6}},
		&fakeGeocoder{place: domain.Place{City: "Portland", Region: "Oregon", Country: "USA"}},
		testLogger(),
	)

	state := p.RequestLocation(context.Background())
	if state.Coordinate == nil || state.Coordinate.Latitude != 45.5 {
		t.Fatalf("coordinate = %+v", state.Coordinate)
	}
	if state.LocationName != "Portland, Oregon, USA" {
		t.Fatalf("location name = %q", state.LocationName)
	}
	if state.Loading || state.Err != "" {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestPermissionDeniedMessage(t *testing.T) {
	p := NewProvider(&fakeSource{err: domain.ErrPermissionDenied}, &fakeGeocoder{}, testLogger())

	state := p.RequestLocation(context.Background())
	if state.Err != "Location permission denied" {
		t.Fatalf("err = %q", state.Err)
	}
	if state.Coordinate != nil {
		t.Fatal("coordinate must stay nil on denial")
	}
}

func TestGenericFailureMessage(t *testing.T) {
	p := NewProvider(&fakeSource{err: errors.New("gps timeout")}, &fakeGeocoder{}, testLogger())

	state := p.RequestLocation(context.Background())
	if state.Err != "Failed to get location" {
		t.Fatalf("err = %q", state.Err)
	}
}

func TestGeocodeFailureKeepsCoordinates(t *testing.T) {
	p := NewProvider(
		&fakeSource{coord: domain.Coordinate{Latitude: 1, Longitude: 2}},
		&fakeGeocoder{err: errors.New("geocoder down")},
		testLogger(),
	)

	state := p.RequestLocation(context.Background())
	if state.Err != "" {
		t.Fatalf("geocode failure must not fail the fetch, got %q", state.Err)
	}
	if state.Coordinate == nil {
		t.Fatal("coordinates must survive a geocode failure")
	}
	if state.LocationName != "" {
		t.Fatalf("location name = %q, want empty", state.LocationName)
	}
}

func TestRetryAfterDenial(t *testing.T) {
	source := &fakeSource{err: domain.ErrPermissionDenied}
	p := NewProvider(source, &fakeGeocoder{place: domain.Place{City: "Moab"}}, testLogger())

	p.RequestLocation(context.Background())

	source.err = nil
	source.coord = domain.Coordinate{Latitude: 38.5, Longitude: -109.5}
	state := p.RequestLocation(context.Background())
	if state.Err != "" || state.Coordinate == nil {
		t.Fatalf("retry did not recover: %+v", state)
	}
	if state.LocationName != "Moab" {
		t.Fatalf("location name = %q", state.LocationName)
	}
}
