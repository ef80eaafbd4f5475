package entity

import "time"

// Store is an approved store as listed by the public store API.
type Store struct {
	ID            string     // Server-assigned store identifier.
	Name          string     // Display name.
	Description   string     // Short description shown in discovery lists.
	Lat           *float64   // Latitude; nil when the store has no registered location.
	Lon           *float64   // Longitude; nil when the store has no registered location.
	DistanceKm    *float64   // Distance from the device, set locally; nil when unknown.
	Tags          []string   // Category tags (cafe, ramen, ...).
	MainImage     string     // URL of the primary image.
	Phone         string     // Contact phone number.
	Website       string     // Website URL.
	Instagram     string     // Instagram handle or URL.
	BusinessHours string     // Free-text opening hours.
	IsFeatured    bool       // Whether the store is promoted in listings.
	Priority      int        // Listing priority, higher first among equals.
	UpdatedAt     *time.Time // Last server-side modification.
}

// HasLocation reports whether the store carries usable coordinates.
func (s *Store) HasLocation() bool {
	return s != nil && s.Lat != nil && s.Lon != nil
}
