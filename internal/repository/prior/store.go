package prior

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/jobrec/internal/domain"
	domprior "github.com/kailas-cloud/jobrec/internal/domain/prior"
)

var keyPrefix = domain.KeyPrefix + "prior:"

// store is the consumer interface for priors (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
}

// Store keeps one hash per user: field = job id, value = weight.
type Store struct {
	store store
}

// New creates a prior store.
func New(s store) *Store {
	return &Store{store: s}
}

// Get loads a user's prior. A user without one gets an empty prior.
func (s *Store) Get(ctx context.Context, userID string) (domprior.Prior, error) {
	key := priorKey(userID)
	m, err := s.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	p := make(domprior.Prior, len(m))
	for jobID, raw := range m {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse weight %s[%s]: %w", key, jobID, err)
		}
		p[jobID] = w
	}
	return p, nil
}

// Save replaces a user's prior in one transaction. A failed save leaves the
// previous prior in place.
func (s *Store) Save(ctx context.Context, userID string, p domprior.Prior) error {
	key := priorKey(userID)
	fields := make(map[string]string, len(p))
	for jobID, w := range p {
		fields[jobID] = formatWeight(w)
	}
	if err := s.store.HReplace(ctx, key, fields); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// SetWeight writes a single job's weight without touching the others.
func (s *Store) SetWeight(ctx context.Context, userID, jobID string, w float64) error {
	key := priorKey(userID)
	if err := s.store.HSet(ctx, key, map[string]string{jobID: formatWeight(w)}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// RemoveJob drops a job from a user's prior without renormalizing.
func (s *Store) RemoveJob(ctx context.Context, userID, jobID string) error {
	key := priorKey(userID)
	if err := s.store.HDel(ctx, key, jobID); err != nil {
		return fmt.Errorf("hdel %s: %w", key, err)
	}
	return nil
}

// Delete drops a user's prior entirely.
func (s *Store) Delete(ctx context.Context, userID string) error {
	key := priorKey(userID)
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}

func priorKey(userID string) string {
	return keyPrefix + userID
}
