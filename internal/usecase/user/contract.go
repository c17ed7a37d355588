package user

import (
	"context"

	"github.com/kailas-cloud/jobrec/internal/domain"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domprior "github.com/kailas-cloud/jobrec/internal/domain/prior"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
)

// Repository defines the storage contract for users.
type Repository interface {
	Create(ctx context.Context, u *domuser.User) error
	Get(ctx context.Context, id string) (domuser.User, error)
	Update(ctx context.Context, u *domuser.User) error
	Delete(ctx context.Context, id string) error
	AppendHistory(ctx context.Context, userID, jobID string) error
	SetHistory(ctx context.Context, userID string, history []string) error
}

// JobReader resolves history entries to postings.
type JobReader interface {
	Get(ctx context.Context, id string) (domjob.Job, error)
	List(ctx context.Context) ([]domjob.Job, error)
}

// Embedder vectorizes profile text.
type Embedder interface {
	domain.Embedder
}

// PriorInitializer derives and drops user priors.
type PriorInitializer interface {
	InitPrior(ctx context.Context, u *domuser.User, reason string) (domprior.Prior, error)
	DeletePrior(ctx context.Context, userID string) error
}
