package entities

// Hospital represents a care facility ranked by distance from the requester.
// DistanceKm is always computed against the requesting coordinate and is
// never carried over between requests.
type Hospital struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	DistanceKm  float64  `json:"distance_km"`
	Location    Location `json:"location"`
	Specialties []string `json:"specialties,omitempty"`
}
