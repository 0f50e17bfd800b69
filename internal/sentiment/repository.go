// Package sentiment holds the normalised, colourised sentiment records for one
// load of the sentiment source.
package sentiment

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/observability"
)

// LoadResult describes how a load completed. Loads never fail: Err is the
// swallowed cause when Fallback is set.
type LoadResult struct {
	Records    int
	Fallback   bool
	Degenerate bool
	Err        error
}

// Summary describes the loaded set for the info panel header and /api/summary.
type Summary struct {
	Departments  int                     `json:"departments"`
	Synthesized  int                     `json:"synthesized"`
	MinRawScore  float64                 `json:"min_raw_score"`
	MaxRawScore  float64                 `json:"max_raw_score"`
	MostPositive *domain.SentimentRecord `json:"most_positive,omitempty"`
	MostNegative *domain.SentimentRecord `json:"most_negative,omitempty"`
	Fallback     bool                    `json:"fallback"`
	LoadedAt     time.Time               `json:"loaded_at"`
}

// Repository owns the keyed record collection. It is written once by Load
// and read many times afterwards; Synthesize is the only later write and
// inserts each code at most once.
type Repository struct {
	mu       sync.RWMutex
	records  map[string]domain.SentimentRecord
	fallback bool
	loadedAt time.Time
	rng      *rand.Rand // guarded by mu

	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRepository creates an empty repository. rng drives record synthesis.
func NewRepository(rng *rand.Rand, logger *slog.Logger, metrics *observability.Metrics) *Repository {
	return &Repository{
		records: make(map[string]domain.SentimentRecord),
		rng:     rng,
		logger:  logger,
		metrics: metrics,
	}
}

// Load fetches and parses the sentiment source, normalises it, and replaces
// the stored set. On fetch or parse failure it stores the built-in fallback
// instead; the error is logged and reported in the result, never returned.
func (r *Repository) Load(ctx context.Context, fetcher domain.Fetcher) LoadResult {
	start := time.Now()
	defer func() {
		r.metrics.LoadDuration.WithLabelValues(observability.SourceSentiment).Observe(time.Since(start).Seconds())
	}()

	r.logger.Info("loading sentiment data", "source", fetcher.Location())

	records, res, err := r.fetchAndNormalize(ctx, fetcher)
	if err != nil {
		r.logger.Error("sentiment load failed, using fallback data", "source", fetcher.Location(), "error", err)
		records = domain.FallbackSentiment()
		res = LoadResult{Records: len(records), Fallback: true, Err: err}
		r.metrics.SourceLoads.WithLabelValues(observability.SourceSentiment, observability.OutcomeFallback).Inc()
	} else {
		r.metrics.SourceLoads.WithLabelValues(observability.SourceSentiment, observability.OutcomeSuccess).Inc()
	}

	loaded := len(records)
	r.logExtremes(records)

	r.mu.Lock()
	kept := carrySynthesized(records, r.records)
	r.records = records
	r.fallback = res.Fallback
	r.loadedAt = domain.Now()
	r.mu.Unlock()

	if kept > 0 {
		r.logger.Debug("kept synthesized records across reload", "count", kept)
	}
	r.metrics.RecordsLoaded.WithLabelValues(observability.SourceSentiment).Set(float64(loaded))
	return res
}

// carrySynthesized copies synthesized entries from prev into next for codes
// the new set still lacks, so a department without data keeps its figures
// across reloads. Loaded records always win.
func carrySynthesized(next, prev map[string]domain.SentimentRecord) int {
	var kept int
	for code, rec := range prev {
		if !rec.Synthesized {
			continue
		}
		if _, ok := next[code]; ok {
			continue
		}
		next[code] = rec
		kept++
	}
	return kept
}

func (r *Repository) fetchAndNormalize(ctx context.Context, fetcher domain.Fetcher) (map[string]domain.SentimentRecord, LoadResult, error) {
	data, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, LoadResult{}, err
	}
	raw, err := domain.ParseSentimentSource(data)
	if err != nil {
		return nil, LoadResult{}, err
	}

	res := LoadResult{Records: len(raw)}
	if rng, ok := domain.RawScoreRange(raw); ok {
		r.logger.Info("normalizing sentiment scores", "min", rng.Min, "max", rng.Max)
		if rng.Degenerate() {
			res.Degenerate = true
			r.metrics.DegenerateRanges.Inc()
			r.logger.Warn("all raw scores are equal, using degenerate score",
				"raw_score", rng.Min, "score", domain.DegenerateScore)
		}
	}
	return domain.Normalize(raw), res, nil
}

func (r *Repository) logExtremes(records map[string]domain.SentimentRecord) {
	best, worst, ok := domain.Extremes(records)
	if !ok {
		r.logger.Warn("sentiment source has no departments")
		return
	}
	r.logger.Info("sentiment data loaded",
		"departments", len(records),
		"most_positive", best.Name, "most_positive_code", best.Code, "most_positive_raw", best.RawScore,
		"most_negative", worst.Name, "most_negative_code", worst.Code, "most_negative_raw", worst.RawScore,
	)
}

// Lookup returns the stored record for a department code.
func (r *Repository) Lookup(code string) (domain.SentimentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[code]
	return rec, ok
}

// Synthesize returns the existing record for code unchanged, or generates,
// stores, and returns a plausible one. Repeated calls for the same code
// return identical records.
func (r *Repository) Synthesize(code, name string) domain.SentimentRecord {
	if rec, ok := r.Lookup(code); ok {
		return rec
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[code]; ok {
		return rec
	}
	rec := domain.SynthesizeRecord(code, name, r.rng)
	r.records[code] = rec
	r.metrics.SynthesizedRecords.Inc()
	r.logger.Debug("synthesized sentiment record", "code", code, "name", name, "score", rec.Score)
	return rec
}

// Resolve is the render-time lookup: the stored record, or a synthesized one.
func (r *Repository) Resolve(code, name string) domain.SentimentRecord {
	if rec, ok := r.Lookup(code); ok {
		return rec
	}
	return r.Synthesize(code, name)
}

// Snapshot returns a copy of every record sorted by code.
func (r *Repository) Snapshot() domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]domain.SentimentRecord, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Code < recs[j].Code })
	return domain.Snapshot{Records: recs, Fallback: r.fallback, LoadedAt: r.loadedAt}
}

// Summary reports the extremes of the loaded (non-synthesized) records.
func (r *Repository) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loaded := make(map[string]domain.SentimentRecord, len(r.records))
	s := Summary{Fallback: r.fallback, LoadedAt: r.loadedAt}
	for code, rec := range r.records {
		if rec.Synthesized {
			s.Synthesized++
			continue
		}
		loaded[code] = rec
	}
	s.Departments = len(loaded)

	if best, worst, ok := domain.Extremes(loaded); ok {
		s.MostPositive = &best
		s.MostNegative = &worst
		s.MinRawScore = worst.RawScore
		s.MaxRawScore = best.RawScore
	}
	return s
}
