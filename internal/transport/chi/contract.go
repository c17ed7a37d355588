package chi

import (
	"context"

	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
	healthuc "github.com/kailas-cloud/jobrec/internal/usecase/health"
	jobuc "github.com/kailas-cloud/jobrec/internal/usecase/job"
	recuc "github.com/kailas-cloud/jobrec/internal/usecase/recommendation"
)

// JobService is implemented by usecase/job.Service.
type JobService interface {
	Create(ctx context.Context, id string, f domjob.Fields) (domjob.Job, error)
	Get(ctx context.Context, id string) (domjob.Job, error)
	List(ctx context.Context, f jobuc.Filter) ([]domjob.Job, error)
	Update(ctx context.Context, id string, f domjob.Fields) (domjob.Job, error)
	Delete(ctx context.Context, id string) error
	EmbedMissing(ctx context.Context) (int, error)
}

// UserService is implemented by usecase/user.Service.
type UserService interface {
	Register(ctx context.Context, p domuser.Profile) (domuser.User, error)
	Get(ctx context.Context, id string) (domuser.User, error)
	UpdateProfile(ctx context.Context, id string, p domuser.Profile) (domuser.User, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, userID string) ([]domjob.Job, error)
	AddToHistory(ctx context.Context, userID, jobID string) (int, error)
	RemoveFromHistory(ctx context.Context, userID, jobID string) (int, error)
	ClearHistory(ctx context.Context, userID string) error
}

// RecommendationService is implemented by usecase/recommendation.Service.
type RecommendationService interface {
	Recommend(ctx context.Context, userID string, limit int) ([]recuc.Recommendation, error)
	Apply(ctx context.Context, userID, jobID string) (recuc.Application, error)
	ResetPrior(ctx context.Context, userID string) error
}

// HealthChecker is implemented by usecase/health.Service.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
