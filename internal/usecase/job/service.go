package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrec/internal/domain"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
)

// Filter narrows a listing. Each non-empty slice must match at least one of
// its terms, case-insensitively, as a substring of the corresponding field.
type Filter struct {
	Companies []string
	Titles    []string
}

// Service handles job CRUD with automatic vectorization.
type Service struct {
	repo     Repository
	embedder Embedder
	priors   PriorMaintainer
	logger   *zap.Logger
	dim      int
}

// New creates a job service.
func New(repo Repository, embedder Embedder, priors PriorMaintainer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		embedder: embedder,
		priors:   priors,
		logger:   logger,
	}
}

// WithDimensions makes the service reject embeddings of any other length.
func (s *Service) WithDimensions(dim int) *Service {
	s.dim = dim
	return s
}

// Create validates, embeds and stores a posting, then adds it to every user
// prior. An empty id gets a generated one.
func (s *Service) Create(ctx context.Context, id string, f domjob.Fields) (domjob.Job, error) {
	if id == "" {
		id = uuid.NewString()
	}
	j, err := domjob.New(id, f)
	if err != nil {
		return domjob.Job{}, err //nolint:wrapcheck // domain validation error
	}

	vec, err := s.embed(ctx, j.Text())
	if err != nil {
		return domjob.Job{}, err
	}
	j = j.WithEmbedding(vec)

	if err := s.repo.Create(ctx, &j); err != nil {
		return domjob.Job{}, fmt.Errorf("create job: %w", err)
	}
	s.logger.Info("job_created", zap.String("job_id", id), zap.String("company", f.Company))

	s.propagate(ctx, &j)
	return j, nil
}

// Get retrieves a posting by id.
func (s *Service) Get(ctx context.Context, id string) (domjob.Job, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return domjob.Job{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// List returns postings matching the filter, ordered by id.
func (s *Service) List(ctx context.Context, f Filter) ([]domjob.Job, error) {
	jobs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	out := make([]domjob.Job, 0, len(jobs))
	for _, j := range jobs {
		fields := j.Fields()
		if matchesAny(fields.Company, f.Companies) && matchesAny(fields.Title, f.Titles) {
			out = append(out, j)
		}
	}
	return out, nil
}

// Update replaces the posting's fields, re-embeds it and refreshes its weight
// in every user prior.
func (s *Service) Update(ctx context.Context, id string, f domjob.Fields) (domjob.Job, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return domjob.Job{}, fmt.Errorf("get job: %w", err)
	}
	j, err := domjob.New(id, f)
	if err != nil {
		return domjob.Job{}, err //nolint:wrapcheck // domain validation error
	}

	vec, err := s.embed(ctx, j.Text())
	if err != nil {
		return domjob.Job{}, err
	}
	j = j.WithEmbedding(vec)

	if err := s.repo.Update(ctx, &j); err != nil {
		return domjob.Job{}, fmt.Errorf("update job: %w", err)
	}
	s.logger.Info("job_updated", zap.String("job_id", id))

	s.propagate(ctx, &j)
	return j, nil
}

// Delete removes a posting and drops it from every user prior.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	s.logger.Info("job_deleted", zap.String("job_id", id))

	if err := s.priors.OnJobDeleted(ctx, id); err != nil {
		s.logger.Warn("prior_maintenance_incomplete", zap.String("job_id", id), zap.Error(err))
	}
	return nil
}

// EmbedMissing embeds every posting stored without an embedding in one batch,
// writes the vectors back and adds the postings to user priors. Returns the
// number of postings embedded.
func (s *Service) EmbedMissing(ctx context.Context) (int, error) {
	jobs, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list jobs: %w", err)
	}

	var pending []domjob.Job
	for _, j := range jobs {
		if !j.HasEmbedding() {
			pending = append(pending, j)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	texts := make([]string, len(pending))
	for i := range pending {
		texts[i] = pending[i].Text()
	}
	res, err := s.batchEmbed(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(res.Embeddings) != len(pending) {
		return 0, fmt.Errorf("got %d embeddings for %d jobs: %w",
			len(res.Embeddings), len(pending), domain.ErrEmbeddingProviderError)
	}

	vectors := make(map[string][]float32, len(pending))
	for i := range pending {
		if err := s.checkDim(res.Embeddings[i]); err != nil {
			return 0, err
		}
		vectors[pending[i].ID()] = res.Embeddings[i]
		pending[i] = pending[i].WithEmbedding(res.Embeddings[i])
	}
	if err := s.repo.SetEmbeddings(ctx, vectors); err != nil {
		return 0, fmt.Errorf("store embeddings: %w", err)
	}
	s.logger.Info("jobs_embedded", zap.Int("count", len(pending)), zap.Int("tokens", res.TotalTokens))

	for i := range pending {
		s.propagate(ctx, &pending[i])
	}
	return len(pending), nil
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize job: %w", err)
	}
	if err := s.checkDim(res.Embedding); err != nil {
		return nil, err
	}
	return res.Embedding, nil
}

func (s *Service) batchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("vectorize jobs: %w", err)
		}
		return res, nil
	}
	res, err := domain.BatchFallback(ctx, s.embedder, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("vectorize jobs: %w", err)
	}
	return res, nil
}

func (s *Service) checkDim(vec []float32) error {
	if s.dim > 0 && len(vec) != s.dim {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d: %w",
			len(vec), s.dim, domain.ErrDimensionMismatch)
	}
	return nil
}

// propagate runs prior maintenance. The posting is already stored, so a
// failure here is logged rather than returned.
func (s *Service) propagate(ctx context.Context, j *domjob.Job) {
	if err := s.priors.OnJobCreated(ctx, j); err != nil {
		s.logger.Warn("prior_maintenance_incomplete", zap.String("job_id", j.ID()), zap.Error(err))
	}
}

func matchesAny(value string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	value = strings.ToLower(value)
	for _, t := range terms {
		if strings.Contains(value, strings.ToLower(strings.TrimSpace(t))) {
			return true
		}
	}
	return false
}
