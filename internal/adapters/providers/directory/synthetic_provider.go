package directory

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/lifeline-ai/backend/internal/domain/providers"
	"github.com/lifeline-ai/backend/pkg/geo"
)

var syntheticNames = []string{
	"General Hospital", "Medical Center", "Community Hospital",
	"Regional Medical Center", "Emergency Hospital", "City Hospital",
	"Memorial Hospital", "Central Medical Center", "University Hospital",
}

var syntheticSpecialties = []string{
	"Emergency", "Cardiology", "Trauma", "Pediatrics", "Surgery",
	"Internal Medicine", "Urgent Care",
}

// SyntheticProvider fabricates a plausible set of facilities scattered
// around the request coordinate. It serves environments without a live
// directory and is the terminal fallback of the facility chain: it never
// fails and never returns an empty list.
//
// Generation is seeded by the coordinate, so the same request location
// produces the same facilities.
type SyntheticProvider struct{}

// NewSyntheticProvider creates the synthetic facility source
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{}
}

// Search generates 5-8 facilities within radiusMeters of the point. Each
// candidate is displaced at most radius/111 degrees per axis and then
// checked against the true haversine distance, so no generated facility
// ever lies outside the requested radius.
func (p *SyntheticProvider) Search(_ context.Context, lat, lon float64, radiusMeters int) ([]*providers.HospitalRecord, error) {
	radiusKm := float64(radiusMeters) / 1000
	if radiusKm <= 0 {
		radiusKm = 10
	}

	rng := rand.New(rand.NewSource(seedFor(lat, lon)))

	count := 5 + rng.Intn(4)
	maxOffset := radiusKm / 111.0

	records := make([]*providers.HospitalRecord, 0, count)
	for i := 0; i < count; i++ {
		hospitalLat, hospitalLon := lat, lon
		for attempt := 0; attempt < 16; attempt++ {
			candidateLat := lat + (rng.Float64()*2-1)*maxOffset
			candidateLon := lon + (rng.Float64()*2-1)*maxOffset
			if geo.Distance(lat, lon, candidateLat, candidateLon) <= radiusKm {
				hospitalLat, hospitalLon = candidateLat, candidateLon
				break
			}
		}

		name := fmt.Sprintf("%s #%d", syntheticNames[rng.Intn(len(syntheticNames))], i+1)
		records = append(records, &providers.HospitalRecord{
			ID:          fmt.Sprintf("synthetic_%03d", i+1),
			Name:        name,
			Address:     fmt.Sprintf("%d Medical Dr, Local City", 100+rng.Intn(9900)),
			Phone:       fmt.Sprintf("+1-555-%04d", 1000+rng.Intn(9000)),
			Latitude:    hospitalLat,
			Longitude:   hospitalLon,
			Specialties: sampleSpecialties(rng),
		})
	}

	return records, nil
}

func sampleSpecialties(rng *rand.Rand) []string {
	count := 2 + rng.Intn(3)
	picked := rng.Perm(len(syntheticSpecialties))[:count]
	specialties := make([]string, 0, count)
	for _, idx := range picked {
		specialties = append(specialties, syntheticSpecialties[idx])
	}
	return specialties
}

func seedFor(lat, lon float64) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.4f,%.4f", lat, lon)
	return int64(h.Sum64())
}
