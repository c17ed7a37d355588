package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/jobrec/internal/domain"
	"github.com/kailas-cloud/jobrec/internal/domain/catalog"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domprior "github.com/kailas-cloud/jobrec/internal/domain/prior"
	"github.com/kailas-cloud/jobrec/internal/domain/ranking"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
	"github.com/kailas-cloud/jobrec/internal/metrics"
)

// Reasons recorded when a prior is (re)initialized.
const (
	ReasonRegister      = "register"
	ReasonProfileUpdate = "profile_update"
	ReasonReset         = "reset"
	ReasonFallback      = "fallback"
)

const (
	defaultMaxLimit    = 100
	defaultConcurrency = 8
)

// Recommendation is one ranked job with its prior weight.
type Recommendation struct {
	Job   domjob.Job
	Score float64
}

// Application is the outcome of recording that a user applied to a job.
type Application struct {
	JobID         string
	HistoryAdded  bool
	Reinitialized bool
}

// Service owns the per-user prior: initialization, posterior updates,
// ranking and catalog maintenance.
type Service struct {
	jobs         JobReader
	users        UserStore
	priors       PriorStore
	logger       *zap.Logger
	temperature  float64
	defaultLimit int
	maxLimit     int
	concurrency  int
}

// New creates a recommendation service.
func New(jobs JobReader, users UserStore, priors PriorStore, logger *zap.Logger) *Service {
	return &Service{
		jobs:         jobs,
		users:        users,
		priors:       priors,
		logger:       logger,
		temperature:  domprior.DefaultTemperature,
		defaultLimit: ranking.DefaultLimit,
		maxLimit:     defaultMaxLimit,
		concurrency:  defaultConcurrency,
	}
}

// WithTemperature sets the likelihood temperature.
func (s *Service) WithTemperature(t float64) *Service {
	if t > 0 {
		s.temperature = t
	}
	return s
}

// WithLimits configures the default and maximum number of recommendations.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// WithMaintenanceConcurrency bounds how many users are updated at once on catalog changes.
func (s *Service) WithMaintenanceConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// InitPrior computes a fresh prior for u over the current catalog and stores it.
func (s *Service) InitPrior(ctx context.Context, u *domuser.User, reason string) (domprior.Prior, error) {
	if !u.HasEmbedding() {
		return nil, fmt.Errorf("user %s: %w", u.ID(), domain.ErrMissingEmbedding)
	}

	c, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	p, err := domprior.Initialize(u.Embedding(), c)
	if err != nil {
		return nil, fmt.Errorf("initialize prior: %w", err)
	}
	if err := s.priors.Save(ctx, u.ID(), p); err != nil {
		return nil, fmt.Errorf("save prior: %w", err)
	}

	metrics.PriorInitsTotal.WithLabelValues(reason).Inc()
	s.logger.Info("prior_initialized",
		zap.String("user_id", u.ID()),
		zap.String("reason", reason),
		zap.Int("jobs", len(p)),
	)
	return p, nil
}

// ResetPrior discards the user's learned preferences and re-derives the prior
// from their profile embedding.
func (s *Service) ResetPrior(ctx context.Context, userID string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if _, err := s.InitPrior(ctx, &u, ReasonReset); err != nil {
		return err
	}
	return nil
}

// DeletePrior removes the stored prior of a user.
func (s *Service) DeletePrior(ctx context.Context, userID string) error {
	if err := s.priors.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete prior: %w", err)
	}
	return nil
}

// Recommend returns up to limit jobs ordered by prior weight, skipping jobs the
// user already applied to. limit <= 0 selects the default; larger than the
// maximum is clamped.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	p, err := s.priors.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get prior: %w", err)
	}
	if len(p) == 0 {
		if !u.HasEmbedding() {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrMissingEmbedding)
		}
		metrics.RecommendationsServed.Observe(0)
		return []Recommendation{}, nil
	}

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	byID := make(map[string]domjob.Job, len(jobs))
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		byID[j.ID()] = j
		ids = append(ids, j.ID())
	}

	ranked := ranking.Rank(p, ids, u.History(), s.clampLimit(limit))
	out := make([]Recommendation, 0, len(ranked))
	for _, id := range ranked {
		out = append(out, Recommendation{Job: byID[id], Score: p[id]})
	}

	metrics.RecommendationsServed.Observe(float64(len(out)))
	return out, nil
}

// Apply records that the user applied to jobID: the job is appended to the
// history when new, then the prior is revised with the posterior update. A
// prior with no mass left on the catalog is re-initialized before the update.
func (s *Service) Apply(ctx context.Context, userID, jobID string) (Application, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return Application{}, fmt.Errorf("get user: %w", err)
	}
	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return Application{}, fmt.Errorf("get job: %w", err)
	}
	if !j.HasEmbedding() {
		return Application{}, fmt.Errorf("job %s: %w", jobID, domain.ErrMissingEmbedding)
	}

	app := Application{JobID: jobID}
	if !u.Applied(jobID) {
		if err := s.users.AppendHistory(ctx, userID, jobID); err != nil {
			return Application{}, fmt.Errorf("append history: %w", err)
		}
		app.HistoryAdded = true
	}

	reinit, err := s.updatePosterior(ctx, &u, j.Embedding())
	if err != nil {
		metrics.PosteriorUpdatesTotal.WithLabelValues("error").Inc()
		return Application{}, err
	}
	app.Reinitialized = reinit
	return app, nil
}

func (s *Service) updatePosterior(ctx context.Context, u *domuser.User, clicked []float32) (bool, error) {
	c, err := s.catalog(ctx)
	if err != nil {
		return false, err
	}
	p, err := s.priors.Get(ctx, u.ID())
	if err != nil {
		return false, fmt.Errorf("get prior: %w", err)
	}

	reinit := false
	posterior, err := domprior.UpdatePosterior(p, clicked, c, s.temperature)
	if errors.Is(err, domain.ErrEmptyDistribution) {
		if !u.HasEmbedding() {
			return false, fmt.Errorf("user %s: %w", u.ID(), domain.ErrMissingEmbedding)
		}
		s.logger.Warn("prior_reinitialized",
			zap.String("user_id", u.ID()),
			zap.Int("stale_entries", len(p)),
		)
		fresh, ierr := domprior.Initialize(u.Embedding(), c)
		if ierr != nil {
			return false, fmt.Errorf("reinitialize prior: %w", ierr)
		}
		metrics.PriorInitsTotal.WithLabelValues(ReasonFallback).Inc()
		reinit = true
		posterior, err = domprior.UpdatePosterior(fresh, clicked, c, s.temperature)
	}
	if err != nil {
		return false, fmt.Errorf("update posterior: %w", err)
	}

	if err := s.priors.Save(ctx, u.ID(), posterior); err != nil {
		return false, fmt.Errorf("save prior: %w", err)
	}

	result := "ok"
	if reinit {
		result = "reinit"
	}
	metrics.PosteriorUpdatesTotal.WithLabelValues(result).Inc()
	s.logger.Info("prior_updated",
		zap.String("user_id", u.ID()),
		zap.Int("jobs", len(posterior)),
		zap.Bool("reinitialized", reinit),
	)
	return reinit, nil
}

// OnJobCreated inserts the job into every user's prior with its similarity
// weight scaled into that prior's current range. Existing weights are not
// renormalized. Users without an embedding are skipped; a job without an
// embedding is a no-op. A failure on one user is logged and does not stop
// the others. Also used when a job is re-embedded after an edit.
func (s *Service) OnJobCreated(ctx context.Context, j *domjob.Job) error {
	if !j.HasEmbedding() {
		return nil
	}
	return s.fanOut(ctx, "job_created", func(ctx context.Context, userID string) (string, error) {
		return s.insertForUser(ctx, userID, j)
	})
}

// OnJobDeleted removes the job from every user's prior without renormalizing.
func (s *Service) OnJobDeleted(ctx context.Context, jobID string) error {
	return s.fanOut(ctx, "job_deleted", func(ctx context.Context, userID string) (string, error) {
		if err := s.priors.RemoveJob(ctx, userID, jobID); err != nil {
			return "", fmt.Errorf("remove job from prior: %w", err)
		}
		return "ok", nil
	})
}

func (s *Service) insertForUser(ctx context.Context, userID string, j *domjob.Job) (string, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "skipped", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if !u.HasEmbedding() {
		return "skipped", nil
	}

	prob, err := domprior.SimilarityWeight(u.Embedding(), j.Embedding())
	if err != nil {
		return "", err //nolint:wrapcheck // already wrapped by domain
	}
	p, err := s.priors.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get prior: %w", err)
	}
	if err := s.priors.SetWeight(ctx, userID, j.ID(), p.ScaledWeight(j.ID(), prob)); err != nil {
		return "", fmt.Errorf("set weight: %w", err)
	}
	return "ok", nil
}

func (s *Service) fanOut(
	ctx context.Context, event string, fn func(ctx context.Context, userID string) (string, error),
) error {
	start := time.Now()
	defer func() {
		metrics.MaintenanceDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
	}()

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			result, err := fn(ctx, id)
			if err != nil {
				metrics.MaintenanceUsersTotal.WithLabelValues(event, "error").Inc()
				s.logger.Error("maintenance_failed",
					zap.String("event", event),
					zap.String("user_id", id),
					zap.Error(err),
				)
				return nil
			}
			metrics.MaintenanceUsersTotal.WithLabelValues(event, result).Inc()
			return nil
		})
	}
	// Per-user failures are logged and counted inside the closures, which
	// always return nil; the group only bounds concurrency.
	g.Wait() //nolint:errcheck // closures never return an error

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s maintenance: %w", event, err)
	}
	return nil
}

func (s *Service) catalog(ctx context.Context) (catalog.Catalog, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("list jobs: %w", err)
	}
	return catalog.FromJobs(jobs), nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit
}
