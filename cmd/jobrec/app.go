package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrec/internal/config"
	"github.com/kailas-cloud/jobrec/internal/db"
	dbRedis "github.com/kailas-cloud/jobrec/internal/db/redis"
	"github.com/kailas-cloud/jobrec/internal/domain"
	"github.com/kailas-cloud/jobrec/internal/metrics"
	"github.com/kailas-cloud/jobrec/internal/repository/embcache"
	jobrepo "github.com/kailas-cloud/jobrec/internal/repository/job"
	priorrepo "github.com/kailas-cloud/jobrec/internal/repository/prior"
	userrepo "github.com/kailas-cloud/jobrec/internal/repository/user"
	openaiEmb "github.com/kailas-cloud/jobrec/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/jobrec/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/jobrec/internal/usecase/health"
	jobuc "github.com/kailas-cloud/jobrec/internal/usecase/job"
	recuc "github.com/kailas-cloud/jobrec/internal/usecase/recommendation"
	useruc "github.com/kailas-cloud/jobrec/internal/usecase/user"
)

// app is the composition root shared by every subcommand.
type app struct {
	store           *dbRedis.Store
	userRepo        *userrepo.Repo
	jobs            *jobuc.Service
	users           *useruc.Service
	recommendations *recuc.Service
	health          *healthuc.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))

	// Registered explicitly, no init()
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRecommendationMetrics()

	emb := &cfg.Embedding
	jobEmbedder := buildEmbedder(emb, emb.JobInstruction, store, logger)
	profileEmbedder := buildEmbedder(emb, emb.ProfileInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("provider", emb.Provider),
		zap.String("model", emb.Model),
		zap.Int("dimensions", emb.Dimensions),
		zap.Bool("cache", emb.CacheOn()),
	)

	jobRepo := jobrepo.New(store)
	userRepo := userrepo.New(store)
	priorStore := priorrepo.New(store)

	rc := cfg.Recommendation
	recSvc := recuc.New(jobRepo, userRepo, priorStore, logger).
		WithTemperature(rc.Temperature).
		WithLimits(rc.DefaultLimit, rc.MaxLimit).
		WithMaintenanceConcurrency(rc.MaintenanceConcurrency)
	jobSvc := jobuc.New(jobRepo, jobEmbedder, recSvc, logger).
		WithDimensions(emb.Dimensions)
	userSvc := useruc.New(userRepo, jobRepo, profileEmbedder, recSvc, logger).
		WithDimensions(emb.Dimensions)

	// A typed nil pointer inside the interface would not compare equal to nil.
	var checker healthuc.EmbeddingChecker
	if !emb.HealthCheckDisabled {
		checker = newEmbeddingHealthChecker(jobEmbedder)
	}

	return &app{
		store:           store,
		userRepo:        userRepo,
		jobs:            jobSvc,
		users:           userSvc,
		recommendations: recSvc,
		health:          healthuc.New(store, checker),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
func buildEmbedder(
	emb *config.EmbeddingConfig,
	instruction string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     emb.APIKey,
		BaseURL:    emb.BaseURL,
		Model:      emb.Model,
		Dimensions: emb.Dimensions,
		Provider:   emb.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if emb.CacheOn() {
		scope := embcache.Scope{Provider: emb.Provider, Model: emb.Model, Dimensions: emb.Dimensions}
		embedder = embcache.New(base, store, scope, emb.CacheTTL(), metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, emb.Provider, emb.Model, emb.MaxBatchSize, logger,
	)

	// Outermost, so the cache key includes the instruction.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
