package services

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/domain/entities"
	"github.com/lifeline-ai/backend/internal/domain/providers"
	"github.com/lifeline-ai/backend/pkg/geo"
)

// HospitalService finds nearby care facilities and ranks them by distance.
// A configured directory provider is queried first; on failure or an empty
// answer the synthetic generator stands in, so the service never fails.
type HospitalService struct {
	directory  providers.HospitalQueryProvider
	fallback   providers.HospitalQueryProvider
	maxResults int
}

// NewHospitalService creates a hospital service. directory may be nil;
// fallback must be an infallible source such as the synthetic generator.
func NewHospitalService(directory, fallback providers.HospitalQueryProvider, maxResults int) *HospitalService {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &HospitalService{
		directory:  directory,
		fallback:   fallback,
		maxResults: maxResults,
	}
}

// FindNearby returns facilities within radiusKm of the location, ordered
// ascending by distance and truncated to the configured maximum.
func (s *HospitalService) FindNearby(ctx context.Context, location entities.Location, radiusKm float64) ([]entities.Hospital, error) {
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = 10
	}

	records := s.queryRecords(ctx, location, radiusKm)

	hospitals := make([]entities.Hospital, 0, len(records))
	for _, record := range records {
		hospitals = append(hospitals, entities.Hospital{
			ID:      record.ID,
			Name:    record.Name,
			Address: record.Address,
			Phone:   record.Phone,
			DistanceKm: geo.Distance(
				location.Latitude, location.Longitude,
				record.Latitude, record.Longitude,
			),
			Location: entities.Location{
				Latitude:  record.Latitude,
				Longitude: record.Longitude,
				Address:   record.Address,
			},
			Specialties: record.Specialties,
		})
	}

	sort.Slice(hospitals, func(i, j int) bool {
		return hospitals[i].DistanceKm < hospitals[j].DistanceKm
	})

	if len(hospitals) > s.maxResults {
		hospitals = hospitals[:s.maxResults]
	}

	return hospitals, nil
}

func (s *HospitalService) queryRecords(ctx context.Context, location entities.Location, radiusKm float64) []*providers.HospitalRecord {
	radiusMeters := int(radiusKm * 1000)

	if s.directory != nil {
		records, err := s.directory.Search(ctx, location.Latitude, location.Longitude, radiusMeters)
		if err != nil {
			log.Warn().Err(err).Msg("hospital directory query failed, using synthetic fallback")
			recordFallbackMetric(ctx, "facilities", "directory")
		} else if len(records) == 0 {
			log.Info().
				Float64("radius_km", radiusKm).
				Msg("hospital directory returned no results, using synthetic fallback")
		} else {
			return records
		}
	}

	records, err := s.fallback.Search(ctx, location.Latitude, location.Longitude, radiusMeters)
	if err != nil {
		// The synthetic generator does not fail; guard anyway.
		log.Error().Err(err).Msg("synthetic hospital generation failed")
		return nil
	}
	return records
}
