package health

import "context"

// StorePinger reports whether Redis answers. Jobs, users and priors all live there.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker reports whether the embedding provider answers. Without it
// stored data stays readable but new jobs and profiles cannot be embedded.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
