package domain

import "errors"

// Numeric errors raised by the ranking core.
var (
	// ErrDegenerateVector signals a zero-norm vector passed to similarity.
	ErrDegenerateVector = errors.New("degenerate vector")
	// ErrDimensionMismatch signals embeddings of different length being compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyDistribution signals normalization of an all-zero weight vector.
	ErrEmptyDistribution = errors.New("empty distribution")
	// ErrMissingEmbedding signals a user or job without an embedding where one is required.
	ErrMissingEmbedding = errors.New("embedding not available")
	// ErrInvalidTemperature signals a non-positive softmax temperature.
	ErrInvalidTemperature = errors.New("invalid temperature")
)

// Errors raised by the service layer.
var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrJobNotFound signals a missing job posting.
	ErrJobNotFound = errors.New("job not found")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyInHistory signals a job the user has already applied to.
	ErrAlreadyInHistory = errors.New("job already in history")
	// ErrNotInHistory signals removal of a job that is not in the history.
	ErrNotInHistory = errors.New("job not in history")
	// ErrInvalidRecord signals a job or user record that failed validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
