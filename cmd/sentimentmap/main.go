package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/sentiment-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/sentiment-map/internal/adapter/kafka"
	"github.com/couchcryptid/sentiment-map/internal/adapter/mapbox"
	"github.com/couchcryptid/sentiment-map/internal/adapter/source"
	"github.com/couchcryptid/sentiment-map/internal/config"
	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/observability"
	"github.com/couchcryptid/sentiment-map/internal/pipeline"
	"github.com/couchcryptid/sentiment-map/internal/region"
	"github.com/couchcryptid/sentiment-map/internal/render"
	"github.com/couchcryptid/sentiment-map/internal/sentiment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocoder", "error", err)
			os.Exit(1)
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	seed := cfg.SynthSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	repo := sentiment.NewRepository(rand.New(rand.NewPCG(seed, seed>>1)), logger, metrics)
	store := region.NewStore(geocoder, logger, metrics)
	renderer := render.New(store, repo, cfg.SynthesizeMissing)

	p := pipeline.New(pipeline.Sources{
		Sentiment: source.New(cfg.SentimentSource, cfg.SourceTimeout, logger),
		Regions:   source.New(cfg.RegionSource, cfg.SourceTimeout, logger),
	}, repo, store, renderer, logger, metrics).
		WithReload(clockwork.NewRealClock(), cfg.ReloadInterval)

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		p.WithPublisher(writer)
		logger.Info("kafka snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.CORSAllowedOrigins, httpadapter.API{
		Map:       p,
		Details:   renderer,
		Sentiment: repo,
		Regions:   store,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
