package job

import (
	"context"

	"github.com/kailas-cloud/jobrec/internal/domain"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
)

// Repository defines the storage contract for job postings.
type Repository interface {
	Create(ctx context.Context, j *domjob.Job) error
	Get(ctx context.Context, id string) (domjob.Job, error)
	Update(ctx context.Context, j *domjob.Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domjob.Job, error)
	SetEmbeddings(ctx context.Context, embeddings map[string][]float32) error
}

// Embedder vectorizes posting text.
type Embedder interface {
	domain.Embedder
}

// PriorMaintainer keeps user priors in step with the catalog.
type PriorMaintainer interface {
	OnJobCreated(ctx context.Context, j *domjob.Job) error
	OnJobDeleted(ctx context.Context, jobID string) error
}
