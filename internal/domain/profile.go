package domain

import (
	"fmt"
	"math"
	"time"
)

type VanType string

const (
	VanCampervan VanType = "campervan"
	VanSkoolie   VanType = "skoolie"
	VanSprinter  VanType = "sprinter"
	VanRV        VanType = "rv"
	VanCar       VanType = "car"
	VanTruck     VanType = "truck"
	VanOther     VanType = "other"
)

type TravelStyle string

const (
	StyleFulltime  TravelStyle = "fulltime"
	StyleParttime  TravelStyle = "parttime"
	StyleWeekender TravelStyle = "weekender"
	StylePlanning  TravelStyle = "planning"
)

type UserStatus string

const (
	StatusParked  UserStatus = "parked"
	StatusRolling UserStatus = "rolling"
)

// ConnectionMode is the relationship context of an interaction.
type ConnectionMode string

const (
	ModeDating  ConnectionMode = "dating"
	ModeFriends ConnectionMode = "friends"
)

func (m ConnectionMode) Valid() bool {
	return m == ModeDating || m == ModeFriends
}

// ModeFilter is a discovery filter. Unlike ConnectionMode it also admits
// "all", which the proximity query dispatches as "friends" (current product
// behavior, kept as-is).
type ModeFilter string

const (
	FilterAll     ModeFilter = "all"
	FilterDating  ModeFilter = "dating"
	FilterFriends ModeFilter = "friends"
)

// DispatchMode translates a filter into the mode sent with the proximity query.
func (f ModeFilter) DispatchMode() ConnectionMode {
	if f == FilterDating {
		return ModeDating
	}
	return ModeFriends
}

type Profile struct {
	ID                 string       `json:"id" db:"id"`
	Name               string       `json:"name" db:"name"`
	Bio                *string      `json:"bio" db:"bio"`
	AvatarURL          *string      `json:"avatar_url" db:"avatar_url"`
	VideoIntroURL      *string      `json:"video_intro_url" db:"video_intro_url"`
	VanType            *VanType     `json:"van_type" db:"van_type"`
	TravelStyle        *TravelStyle `json:"travel_style" db:"travel_style"`
	OnRoadSince        *string      `json:"on_road_since" db:"on_road_since"`
	Status             UserStatus   `json:"status" db:"status"`
	Latitude           *float64     `json:"latitude" db:"latitude"`
	Longitude          *float64     `json:"longitude" db:"longitude"`
	LocationName       *string      `json:"location_name" db:"location_name"`
	LocationUpdatedAt  *time.Time   `json:"location_updated_at" db:"location_updated_at"`
	LookingFor         []string     `json:"looking_for" db:"looking_for"`
	Gender             *string      `json:"gender" db:"gender"`
	InterestedIn       []string     `json:"interested_in" db:"interested_in"`
	Age                *int         `json:"age" db:"age"`
	IsVerified         bool         `json:"is_verified" db:"is_verified"`
	IsBuilder          bool         `json:"is_builder" db:"is_builder"`
	BuilderSpecialty   *string      `json:"builder_specialty" db:"builder_specialty"`
	BuilderRate        *string      `json:"builder_rate" db:"builder_rate"`
	BuilderDescription *string      `json:"builder_description" db:"builder_description"`
	PremiumUntil       *time.Time   `json:"premium_until" db:"premium_until"`
	StripeCustomerID   *string      `json:"-" db:"stripe_customer_id"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// IsOnboarded reports whether the profile has the minimum the app requires
// before it can appear in discovery.
func (p *Profile) IsOnboarded() bool {
	return p.Name != "" && p.AvatarURL != nil && *p.AvatarURL != ""
}

// NearbyProfile is a candidate returned by a proximity query. The distance is
// server-computed and only meaningful when the caller supplied coordinates.
type NearbyProfile struct {
	Profile
	DistanceKm float64 `json:"distance_km" db:"distance_km"`
}

// BuilderProfile is a builder listing with aggregated review data.
type BuilderProfile struct {
	Profile
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	ReviewCount   int     `json:"review_count" db:"review_count"`
}

// FormatDistance renders a distance for display: "<1 km" under a kilometer,
// one decimal up to 10 km, rounded whole kilometers beyond that.
func FormatDistance(km float64) string {
	if km < 1 {
		return "<1 km"
	}
	if km < 10 {
		return fmt.Sprintf("%.1f km", km)
	}
	return fmt.Sprintf("%d km", int(math.Round(km)))
}
