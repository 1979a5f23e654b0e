package directory

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/lifeline-ai/backend/internal/domain/providers"
	tsclient "github.com/lifeline-ai/backend/internal/infrastructure/clients/typesense"
)

const collectionName = "hospitals"

// TypesenseProvider serves hospital lookups from a geo-indexed Typesense
// collection. Deployments that maintain their own facility registry index
// it once (see cmd/indexer) and query it here instead of a public API.
type TypesenseProvider struct {
	client     *tsclient.Client
	maxPerPage int
}

// Ensure TypesenseProvider implements HospitalQueryProvider
var _ providers.HospitalQueryProvider = (*TypesenseProvider)(nil)

// NewTypesenseProvider creates a Typesense directory source
func NewTypesenseProvider(client *tsclient.Client, maxPerPage int) *TypesenseProvider {
	if maxPerPage <= 0 {
		maxPerPage = 50
	}
	return &TypesenseProvider{client: client, maxPerPage: maxPerPage}
}

// InitSchema ensures the hospitals collection exists
func (p *TypesenseProvider) InitSchema(ctx context.Context) error {
	_, err := p.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "phone", Type: "string"},
			{Name: "location", Type: "geopoint"},
			{Name: "specialties", Type: "string[]", Optional: pointer.True()},
		},
	}

	_, err = p.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts one hospital record into the collection
func (p *TypesenseProvider) Index(ctx context.Context, record *providers.HospitalRecord) error {
	document := map[string]interface{}{
		"id":          record.ID,
		"name":        record.Name,
		"address":     record.Address,
		"phone":       record.Phone,
		"location":    []float64{record.Latitude, record.Longitude},
		"specialties": record.Specialties,
	}

	_, err := p.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index hospital: %w", err)
	}

	return nil
}

// Search returns indexed hospitals within radiusMeters of the coordinate
func (p *TypesenseProvider) Search(ctx context.Context, lat, lon float64, radiusMeters int) ([]*providers.HospitalRecord, error) {
	radiusKm := float64(radiusMeters) / 1000

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(fmt.Sprintf("location:(%f, %f, %f km)", lat, lon, radiusKm)),
		SortBy:   pointer.String(fmt.Sprintf("location(%f, %f):asc", lat, lon)),
		PerPage:  pointer.Int(p.maxPerPage),
	}

	result, err := p.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}

	if result.Hits == nil {
		return nil, nil
	}

	records := make([]*providers.HospitalRecord, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		locInterface, ok := doc["location"].([]interface{})
		var hitLat, hitLon float64
		if ok && len(locInterface) == 2 {
			hitLat, _ = locInterface[0].(float64)
			hitLon, _ = locInterface[1].(float64)
		}

		record := &providers.HospitalRecord{
			ID:        stringField(doc, "id"),
			Name:      stringField(doc, "name"),
			Address:   stringField(doc, "address"),
			Phone:     stringField(doc, "phone"),
			Latitude:  hitLat,
			Longitude: hitLon,
		}
		if raw, ok := doc["specialties"].([]interface{}); ok {
			for _, item := range raw {
				if s, ok := item.(string); ok {
					record.Specialties = append(record.Specialties, s)
				}
			}
		}
		records = append(records, record)
	}

	return records, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if value, ok := doc[key].(string); ok {
		return value
	}
	return ""
}
