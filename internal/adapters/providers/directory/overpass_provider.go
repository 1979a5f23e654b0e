package directory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lifeline-ai/backend/internal/domain/providers"
)

const (
	defaultOverpassURL      = "https://overpass-api.de/api/interpreter"
	defaultOverpassTimeout  = 8 * time.Second
	overpassResultsCacheTTL = 600
)

// OverpassProvider queries the OpenStreetMap Overpass API for hospitals
// near a coordinate. A single attempt per request, bounded by the client
// timeout; any failure is returned to the caller, which falls back to the
// synthetic generator.
type OverpassProvider struct {
	url        string
	httpClient *http.Client
	cache      providers.CacheProvider
}

// NewOverpassProvider creates an Overpass directory source. cache may be
// nil; when set, raw query payloads are cached briefly keyed by the rounded
// coordinate and radius.
func NewOverpassProvider(url string, cache providers.CacheProvider) *OverpassProvider {
	return NewOverpassProviderWithClient(url, cache, nil)
}

// NewOverpassProviderWithClient allows overriding the HTTP client (used for tests).
func NewOverpassProviderWithClient(url string, cache providers.CacheProvider, httpClient *http.Client) *OverpassProvider {
	if strings.TrimSpace(url) == "" {
		url = defaultOverpassURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultOverpassTimeout}
	}
	return &OverpassProvider{
		url:        url,
		httpClient: httpClient,
		cache:      cache,
	}
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// Search returns hospital records within radiusMeters of the coordinate
func (p *OverpassProvider) Search(ctx context.Context, lat, lon float64, radiusMeters int) ([]*providers.HospitalRecord, error) {
	body, err := p.fetch(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}

	var decoded overpassResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	records := make([]*providers.HospitalRecord, 0, len(decoded.Elements))
	for _, element := range decoded.Elements {
		elementLat, elementLon := element.Lat, element.Lon
		if element.Type != "node" {
			if element.Center == nil {
				continue
			}
			elementLat, elementLon = element.Center.Lat, element.Center.Lon
		}

		name := element.Tags["name"]
		if name == "" {
			name = fmt.Sprintf("Hospital %d", element.ID)
		}

		specialties := []string{"Emergency"}
		if raw := element.Tags["healthcare:speciality"]; raw != "" {
			specialties = append(specialties, strings.Split(raw, ";")...)
		}

		records = append(records, &providers.HospitalRecord{
			ID:          fmt.Sprintf("osm_%d", element.ID),
			Name:        name,
			Address:     buildAddress(element.Tags),
			Phone:       phoneOrPlaceholder(element.Tags),
			Latitude:    elementLat,
			Longitude:   elementLon,
			Specialties: specialties,
		})
	}

	return records, nil
}

func (p *OverpassProvider) fetch(ctx context.Context, lat, lon float64, radiusMeters int) ([]byte, error) {
	cacheKey := fmt.Sprintf("hospitals:overpass:%s", hashKey(fmt.Sprintf("%.3f,%.3f,%d", lat, lon, radiusMeters)))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			recordCacheLookup(ctx, true)
			return cached, nil
		}
		recordCacheLookup(ctx, false)
	}

	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="hospital"](around:%d,%f,%f);
  way["amenity"="hospital"](around:%d,%f,%f);
  relation["amenity"="hospital"](around:%d,%f,%f);
);
out center meta;`,
		radiusMeters, lat, lon,
		radiusMeters, lat, lon,
		radiusMeters, lat, lon,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, body, overpassResultsCacheTTL)
	}

	return body, nil
}

func buildAddress(tags map[string]string) string {
	var parts []string
	for _, key := range []string{"addr:housenumber", "addr:street", "addr:city"} {
		if tags[key] != "" {
			parts = append(parts, tags[key])
		}
	}
	if len(parts) == 0 {
		return "Address not available"
	}
	return strings.Join(parts, ", ")
}

func phoneOrPlaceholder(tags map[string]string) string {
	if tags["phone"] != "" {
		return tags["phone"]
	}
	return "Phone not available"
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

var (
	cacheCountersOnce sync.Once
	cacheHitCounter   metric.Int64Counter
	cacheMissCounter  metric.Int64Counter
)

func initCacheCounters() {
	meter := otel.Meter("github.com/lifeline-ai/backend/directory")
	if counter, err := meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of cache hits"),
	); err == nil {
		cacheHitCounter = counter
	}
	if counter, err := meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of cache misses"),
	); err == nil {
		cacheMissCounter = counter
	}
}

func recordCacheLookup(ctx context.Context, hit bool) {
	cacheCountersOnce.Do(initCacheCounters)
	counter := cacheMissCounter
	if hit {
		counter = cacheHitCounter
	}
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.name", "hospitals:overpass"),
	))
}
