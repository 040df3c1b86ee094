package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
	// Matched is false when the provider answered but found nothing.
	Matched bool
}

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	// Geocode looks up query. A provider that finds nothing returns a result
	// with Matched false and a nil error.
	Geocode(ctx context.Context, query string) (GeocodingResult, error)
}
