package recommendation

import (
	"context"

	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domprior "github.com/kailas-cloud/jobrec/internal/domain/prior"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
)

// JobReader provides the catalog snapshot.
type JobReader interface {
	Get(ctx context.Context, id string) (domjob.Job, error)
	List(ctx context.Context) ([]domjob.Job, error)
}

// UserStore reads users and records applications.
type UserStore interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	ListIDs(ctx context.Context) ([]string, error)
	AppendHistory(ctx context.Context, userID, jobID string) error
}

// PriorStore persists one prior per user.
type PriorStore interface {
	Get(ctx context.Context, userID string) (domprior.Prior, error)
	Save(ctx context.Context, userID string, p domprior.Prior) error
	SetWeight(ctx context.Context, userID, jobID string, w float64) error
	RemoveJob(ctx context.Context, userID, jobID string) error
	Delete(ctx context.Context, userID string) error
}
