package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/repository"
	"github.com/driftr-app/driftr-backend/internal/usecase/location"
)

// Geocoder resolves a coordinate into a human-readable place.
type Geocoder interface {
	Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error)
}

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	geocoder    Geocoder
	log         *slog.Logger
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, geocoder Geocoder, log *slog.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		geocoder:    geocoder,
		log:         log,
	}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return uc.profileRepo.GetByID(ctx, userID)
}

// UpdateInput carries partial profile updates; nil fields are left unchanged.
type UpdateInput struct {
	Name               *string             `json:"name"`
	Bio                *string             `json:"bio"`
	AvatarURL          *string             `json:"avatar_url"`
	VideoIntroURL      *string             `json:"video_intro_url"`
	VanType            *domain.VanType     `json:"van_type"`
	TravelStyle        *domain.TravelStyle `json:"travel_style"`
	OnRoadSince        *string             `json:"on_road_since"`
	Status             *domain.UserStatus  `json:"status"`
	LookingFor         []string            `json:"looking_for"`
	Gender             *string             `json:"gender"`
	InterestedIn       []string            `json:"interested_in"`
	Age                *int                `json:"age"`
	IsBuilder          *bool               `json:"is_builder"`
	BuilderSpecialty   *string             `json:"builder_specialty"`
	BuilderRate        *string             `json:"builder_rate"`
	BuilderDescription *string             `json:"builder_description"`
}

// UpdateProfile applies a partial update and returns the stored profile.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateInput) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		profile.Name = *input.Name
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.VideoIntroURL != nil {
		profile.VideoIntroURL = input.VideoIntroURL
	}
	if input.VanType != nil {
		profile.VanType = input.VanType
	}
	if input.TravelStyle != nil {
		profile.TravelStyle = input.TravelStyle
	}
	if input.OnRoadSince != nil {
		profile.OnRoadSince = input.OnRoadSince
	}
	if input.Status != nil {
		profile.Status = *input.Status
	}
	if input.LookingFor != nil {
		for _, mode := range input.LookingFor {
			if !domain.ConnectionMode(mode).Valid() {
				return nil, domain.ErrInvalidInput
			}
		}
		profile.LookingFor = input.LookingFor
	}
	if input.Gender != nil {
		profile.Gender = input.Gender
	}
	if input.InterestedIn != nil {
		profile.InterestedIn = input.InterestedIn
	}
	if input.Age != nil {
		profile.Age = input.Age
	}
	if input.IsBuilder != nil {
		profile.IsBuilder = *input.IsBuilder
	}
	if input.BuilderSpecialty != nil {
		profile.BuilderSpecialty = input.BuilderSpecialty
	}
	if input.BuilderRate != nil {
		profile.BuilderRate = input.BuilderRate
	}
	if input.BuilderDescription != nil {
		profile.BuilderDescription = input.BuilderDescription
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// UpdateLocation stores the user's coordinates with a reverse-geocoded place
// name. Geocoding is best-effort: on failure the coordinates still land, the
// name just stays empty.
func (uc *ProfileUseCase) UpdateLocation(ctx context.Context, userID string, coord domain.Coordinate) (*domain.Profile, error) {
	var name *string
	if uc.geocoder != nil {
		place, err := uc.geocoder.Reverse(ctx, coord)
		if err != nil {
			uc.log.Warn("reverse geocode failed", "user_id", userID, "error", err)
		} else if display := place.DisplayName(); display != "" {
			name = &display
		}
	}

	if err := uc.profileRepo.UpdateLocation(ctx, userID, coord.Latitude, coord.Longitude, name); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return uc.profileRepo.GetByID(ctx, userID)
}

// RequestLocation runs the device-report location flow. A denied or missing
// fix surfaces the canonical error state without touching the stored
// location; a good fix is reverse-geocoded and persisted.
func (uc *ProfileUseCase) RequestLocation(ctx context.Context, userID string, report location.ClientReport) (location.State, error) {
	provider := location.NewProvider(report, uc.geocoder, uc.log)
	state := provider.RequestLocation(ctx)
	if state.Err != "" || state.Coordinate == nil {
		return state, nil
	}

	var name *string
	if state.LocationName != "" {
		name = &state.LocationName
	}
	if err := uc.profileRepo.UpdateLocation(ctx, userID, state.Coordinate.Latitude, state.Coordinate.Longitude, name); err != nil {
		return state, fmt.Errorf("failed to store location: %w", err)
	}
	return state, nil
}

// NearbyPins serves the map surface: the same proximity query the deck uses,
// truncated to a pin budget. An "all" filter dispatches as "friends" here too.
func (uc *ProfileUseCase) NearbyPins(ctx context.Context, userID string, coord domain.Coordinate, radiusKm float64, filter domain.ModeFilter) ([]domain.NearbyProfile, error) {
	if radiusKm <= 0 {
		radiusKm = domain.DefaultRadiusKm
	}
	pins, err := uc.profileRepo.Nearby(ctx, userID, coord.Latitude, coord.Longitude, radiusKm, filter.DispatchMode(), domain.MaxMapPins)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch map pins: %w", err)
	}
	return pins, nil
}
