package domain

// Discovery defaults shared by the swipe and map surfaces.
const (
	DefaultRadiusKm = 50
	MaxMapPins      = 50
)
