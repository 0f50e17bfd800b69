// Package region loads department boundaries and places their labels.
package region

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/observability"
)

// geocodeConcurrency bounds in-flight label lookups against the geocoder.
const geocodeConcurrency = 8

// LoadResult describes how a load completed. Err is the swallowed cause
// when Fallback is set.
type LoadResult struct {
	Regions  int
	Fallback bool
	Err      error
}

// Store holds the boundary collection in source order.
type Store struct {
	mu       sync.RWMutex
	regions  []domain.RegionFeature
	byCode   map[string]int
	bounds   domain.Bounds
	fallback bool

	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewStore creates an empty store. geocoder may be nil, in which case labels
// sit at the centre of each department's bounding box.
func NewStore(geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		byCode:   make(map[string]int),
		bounds:   domain.EmptyBounds(),
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load fetches and parses the boundary source, places a label on every
// region, and replaces the stored collection. On failure the three built-in
// triangles are stored instead.
func (s *Store) Load(ctx context.Context, fetcher domain.Fetcher) LoadResult {
	start := time.Now()
	defer func() {
		s.metrics.LoadDuration.WithLabelValues(observability.SourceRegions).Observe(time.Since(start).Seconds())
	}()

	s.logger.Info("loading region boundaries", "source", fetcher.Location())

	res := LoadResult{}
	regions, err := s.fetch(ctx, fetcher)
	if err != nil {
		s.logger.Error("region load failed, using fallback boundaries", "source", fetcher.Location(), "error", err)
		regions = domain.FallbackRegions()
		res.Fallback = true
		res.Err = err
		s.metrics.SourceLoads.WithLabelValues(observability.SourceRegions, observability.OutcomeFallback).Inc()
	} else {
		s.metrics.SourceLoads.WithLabelValues(observability.SourceRegions, observability.OutcomeSuccess).Inc()
	}

	regions = s.label(ctx, regions)
	res.Regions = len(regions)

	byCode := make(map[string]int, len(regions))
	for i, r := range regions {
		byCode[r.Code] = i
	}
	bounds := domain.CollectionBounds(regions)

	s.mu.Lock()
	s.regions = regions
	s.byCode = byCode
	s.bounds = bounds
	s.fallback = res.Fallback
	s.mu.Unlock()

	s.metrics.RecordsLoaded.WithLabelValues(observability.SourceRegions).Set(float64(len(regions)))
	s.logger.Info("region boundaries loaded", "regions", len(regions), "fallback", res.Fallback)
	return res
}

func (s *Store) fetch(ctx context.Context, fetcher domain.Fetcher) ([]domain.RegionFeature, error) {
	data, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ParseRegionCollection(data)
}

// label runs label placement for every region. Geocoding failures degrade
// to the computed label and never fail the load.
func (s *Store) label(ctx context.Context, regions []domain.RegionFeature) []domain.RegionFeature {
	out := make([]domain.RegionFeature, len(regions))
	if s.geocoder == nil {
		for i, r := range regions {
			out[i] = domain.WithComputedLabel(r)
		}
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for i, r := range regions {
		g.Go(func() error {
			out[i] = domain.EnrichWithGeocoding(gctx, r, s.geocoder, s.logger)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Regions returns the stored regions in source order.
func (s *Store) Regions() []domain.RegionFeature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RegionFeature, len(s.regions))
	copy(out, s.regions)
	return out
}

// Lookup returns the region with the given department code.
func (s *Store) Lookup(code string) (domain.RegionFeature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byCode[code]
	if !ok {
		return domain.RegionFeature{}, false
	}
	return s.regions[i], true
}

// Bounds returns the box covering the whole collection. It is empty before
// the first load or when the collection has no features.
func (s *Store) Bounds() domain.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// Fallback reports whether the stored collection is the built-in one.
func (s *Store) Fallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}
