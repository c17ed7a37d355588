package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrec/internal/domain"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
	"github.com/kailas-cloud/jobrec/internal/usecase/recommendation"
)

// Service handles user profiles and application history.
type Service struct {
	repo     Repository
	jobs     JobReader
	embedder Embedder
	priors   PriorInitializer
	logger   *zap.Logger
	dim      int
	newID    func() string
}

// New creates a user service.
func New(repo Repository, jobs JobReader, embedder Embedder, priors PriorInitializer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		jobs:     jobs,
		embedder: embedder,
		priors:   priors,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// WithDimensions makes the service reject embeddings of any other length.
func (s *Service) WithDimensions(dim int) *Service {
	s.dim = dim
	return s
}

// Register validates and embeds a profile, stores the user and initializes
// their prior from the current catalog.
func (s *Service) Register(ctx context.Context, p domuser.Profile) (domuser.User, error) {
	profile, err := domuser.NewProfile(p)
	if err != nil {
		return domuser.User{}, err //nolint:wrapcheck // domain validation error
	}

	vec, err := s.embed(ctx, profile.Text())
	if err != nil {
		return domuser.User{}, err
	}

	u := domuser.New(s.newID(), profile, vec)
	if err := s.repo.Create(ctx, &u); err != nil {
		return domuser.User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user_registered", zap.String("user_id", u.ID()))

	s.initPrior(ctx, &u, recommendation.ReasonRegister)
	return u, nil
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, id string) (domuser.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile replaces the profile, re-embeds it and re-initializes the
// prior. The application history is kept.
func (s *Service) UpdateProfile(ctx context.Context, id string, p domuser.Profile) (domuser.User, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	profile, err := domuser.NewProfile(p)
	if err != nil {
		return domuser.User{}, err //nolint:wrapcheck // domain validation error
	}

	vec, err := s.embed(ctx, profile.Text())
	if err != nil {
		return domuser.User{}, err
	}

	u := current.WithProfile(profile, vec)
	if err := s.repo.Update(ctx, &u); err != nil {
		return domuser.User{}, fmt.Errorf("update user: %w", err)
	}
	s.logger.Info("profile_updated", zap.String("user_id", id))

	s.initPrior(ctx, &u, recommendation.ReasonProfileUpdate)
	return u, nil
}

// Delete removes the user and their prior.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.priors.DeletePrior(ctx, id); err != nil {
		return fmt.Errorf("delete user prior: %w", err)
	}
	s.logger.Info("user_deleted", zap.String("user_id", id))
	return nil
}

// History returns the postings the user applied to, in application order.
// Postings deleted since are skipped.
func (s *Service) History(ctx context.Context, userID string) ([]domjob.Job, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	history := u.History()
	if len(history) == 0 {
		return []domjob.Job{}, nil
	}

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	byID := make(map[string]domjob.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID()] = j
	}

	out := make([]domjob.Job, 0, len(history))
	for _, id := range history {
		if j, ok := byID[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

// AddToHistory appends jobID to the history without touching the prior.
// Returns the new history length.
func (s *Service) AddToHistory(ctx context.Context, userID, jobID string) (int, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return 0, fmt.Errorf("get job: %w", err)
	}
	if u.Applied(jobID) {
		return 0, fmt.Errorf("job %s: %w", jobID, domain.ErrAlreadyInHistory)
	}
	if err := s.repo.AppendHistory(ctx, userID, jobID); err != nil {
		return 0, fmt.Errorf("append history: %w", err)
	}
	return len(u.History()) + 1, nil
}

// RemoveFromHistory drops every occurrence of jobID. Returns the new history length.
func (s *Service) RemoveFromHistory(ctx context.Context, userID, jobID string) (int, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if !u.Applied(jobID) {
		return 0, fmt.Errorf("job %s: %w", jobID, domain.ErrNotInHistory)
	}

	kept := make([]string, 0, len(u.History()))
	for _, id := range u.History() {
		if id != jobID {
			kept = append(kept, id)
		}
	}
	if err := s.repo.SetHistory(ctx, userID, kept); err != nil {
		return 0, fmt.Errorf("set history: %w", err)
	}
	return len(kept), nil
}

// ClearHistory empties the history. The prior is left as is.
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	if err := s.repo.SetHistory(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize profile: %w", err)
	}
	if s.dim > 0 && len(res.Embedding) != s.dim {
		return nil, fmt.Errorf("vector dimension mismatch: got %d, want %d: %w",
			len(res.Embedding), s.dim, domain.ErrDimensionMismatch)
	}
	return res.Embedding, nil
}

// initPrior runs after the user is stored. A failure leaves the user without
// recommendations until the next reset, so it is logged, not returned.
func (s *Service) initPrior(ctx context.Context, u *domuser.User, reason string) {
	if _, err := s.priors.InitPrior(ctx, u, reason); err != nil {
		s.logger.Error("prior_init_failed",
			zap.String("user_id", u.ID()),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}
