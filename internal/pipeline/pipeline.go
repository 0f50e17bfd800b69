package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/observability"
	"github.com/couchcryptid/sentiment-map/internal/region"
	"github.com/couchcryptid/sentiment-map/internal/render"
	"github.com/couchcryptid/sentiment-map/internal/sentiment"
)

// SentimentStore loads the sentiment source and hands out snapshots of it.
type SentimentStore interface {
	Load(ctx context.Context, fetcher domain.Fetcher) sentiment.LoadResult
	Snapshot() domain.Snapshot
}

// RegionStore loads the boundary source.
type RegionStore interface {
	Load(ctx context.Context, fetcher domain.Fetcher) region.LoadResult
}

// MapRenderer builds the styled choropleth layer from the stores.
type MapRenderer interface {
	Choropleth() render.Map
}

// SnapshotPublisher ships the normalised record set somewhere after a render.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Sources are the two payload locations loaded on every generation.
type Sources struct {
	Sentiment domain.Fetcher
	Regions   domain.Fetcher
}

// Pipeline runs load generations: both sources load concurrently and the map
// is rendered exactly once after both have completed.
type Pipeline struct {
	sources   Sources
	sentiment SentimentStore
	regions   RegionStore
	renderer  MapRenderer
	publisher SnapshotPublisher

	clock          clockwork.Clock
	reloadInterval time.Duration

	logger  *slog.Logger
	metrics *observability.Metrics

	ready      atomic.Bool
	current    atomic.Pointer[render.Map]
	generation atomic.Uint64
}

// New creates a Pipeline that loads once. Use WithReload and WithPublisher to
// enable periodic reloads and snapshot publishing.
func New(src Sources, s SentimentStore, r RegionStore, renderer MapRenderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		sources:   src,
		sentiment: s,
		regions:   r,
		renderer:  renderer,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		metrics:   metrics,
	}
}

// WithReload re-runs a full generation every interval, timed by clock.
// An interval of zero disables reloading.
func (p *Pipeline) WithReload(clock clockwork.Clock, interval time.Duration) *Pipeline {
	p.clock = clock
	p.reloadInterval = interval
	return p
}

// WithPublisher publishes the record snapshot after every render.
func (p *Pipeline) WithPublisher(pub SnapshotPublisher) *Pipeline {
	p.publisher = pub
	return p
}

// CheckReadiness returns nil once the first map has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("map has not been rendered yet")
	}
	return nil
}

// Map returns the most recently rendered layer.
func (p *Pipeline) Map() (render.Map, bool) {
	m := p.current.Load()
	if m == nil {
		return render.Map{}, false
	}
	return *m, true
}

// Generation returns how many generations have rendered.
func (p *Pipeline) Generation() uint64 {
	return p.generation.Load()
}

// Run loads and renders once, then reloads on every tick until ctx is
// cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "reload_interval", p.reloadInterval)

	if err := p.LoadGeneration(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	if p.reloadInterval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := p.LoadGeneration(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("reload failed", "error", err)
			}
		}
	}
}

// LoadGeneration runs both loads concurrently and renders when the second
// one finishes, whichever it is. Loaders swallow their own failures, so the
// only error is context cancellation before the render.
func (p *Pipeline) LoadGeneration(ctx context.Context) error {
	start := time.Now()

	var (
		once    sync.Once
		pending atomic.Int32
	)
	pending.Store(2)
	done := func() {
		if pending.Add(-1) == 0 {
			once.Do(p.render)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer done()
		res := p.sentiment.Load(gctx, p.sources.Sentiment)
		p.logger.Debug("sentiment load complete", "records", res.Records, "fallback", res.Fallback)
		return nil
	})
	g.Go(func() error {
		defer done()
		res := p.regions.Load(gctx, p.sources.Regions)
		p.logger.Debug("region load complete", "regions", res.Regions, "fallback", res.Fallback)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.logger.Info("generation complete", "generation", p.generation.Load(), "duration", time.Since(start))
	p.publish(ctx)
	return nil
}

func (p *Pipeline) render() {
	m := p.renderer.Choropleth()
	p.current.Store(&m)
	gen := p.generation.Add(1)
	p.ready.Store(true)

	p.metrics.MapRenders.Inc()
	p.metrics.MapReady.Set(1)
	p.logger.Info("map rendered", "generation", gen, "features", len(m.Features))
}

func (p *Pipeline) publish(ctx context.Context) {
	if p.publisher == nil {
		return
	}
	snap := p.sentiment.Snapshot()
	if err := p.publisher.PublishSnapshot(ctx, snap); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("snapshot publish failed", "error", err, "records", len(snap.Records))
		return
	}
	p.metrics.SnapshotsPublished.Inc()
	p.logger.Info("snapshot published", "records", len(snap.Records))
}
