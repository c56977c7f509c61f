package domain

import "strings"

// Coordinate is a WGS-84 position. Immutable once captured for a fetch cycle.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a reverse-geocoded location.
type Place struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// DisplayName joins the non-empty parts with commas, e.g. "Moab, Utah, USA".
func (p Place) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.City, p.Region, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
