package providers

import "context"

// HospitalQueryProvider is a source of candidate care facilities near a
// coordinate. Implementations soft-fail: an error (or an empty result set)
// makes the directory fall back to the synthetic generator.
type HospitalQueryProvider interface {
	// Search returns raw facility records within radiusMeters of the point
	Search(ctx context.Context, lat, lon float64, radiusMeters int) ([]*HospitalRecord, error)
}

// HospitalRecord is one raw directory entry before distance ranking.
// The JSON shape doubles as the static registry file format read by the
// indexer command.
type HospitalRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Specialties []string `json:"specialties,omitempty"`
}
