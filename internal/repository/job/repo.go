package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/jobrec/internal/db"
	"github.com/kailas-cloud/jobrec/internal/domain"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
)

var keyPrefix = domain.KeyPrefix + "job:"

// store is the consumer interface for job postings (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetNX(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/job.Repository and usecase/recommendation.JobReader.
type Repo struct {
	store store
}

// New creates a job repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new posting. Returns domain.ErrAlreadyExists if the id is taken.
func (r *Repo) Create(ctx context.Context, j *domjob.Job) error {
	key := jobKey(j.ID())
	data, err := json.Marshal(toDoc(j))
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.store.JSONSetNX(ctx, key, "$", data); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a posting by id.
func (r *Repo) Get(ctx context.Context, id string) (domjob.Job, error) {
	key := jobKey(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domjob.Job{}, domain.ErrJobNotFound
		}
		return domjob.Job{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseDoc(id, raw)
}

// Update replaces an existing posting.
func (r *Repo) Update(ctx context.Context, j *domjob.Job) error {
	key := jobKey(j.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrJobNotFound
	}

	data, err := json.Marshal(toDoc(j))
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Delete removes a posting.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := jobKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrJobNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns every posting ordered by id. Keys that vanish between SCAN and
// JSON.GET are skipped.
func (r *Repo) List(ctx context.Context) ([]domjob.Job, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	docs, err := r.store.JSONGetMulti(ctx, keys, ".")
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}

	jobs := make([]domjob.Job, 0, len(docs))
	for i, raw := range docs {
		if raw == nil {
			continue
		}
		j, err := parseDoc(strings.TrimPrefix(keys[i], keyPrefix), raw)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// SetEmbeddings writes embeddings for several postings in one round-trip.
func (r *Repo) SetEmbeddings(ctx context.Context, embeddings map[string][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}
	ids := make([]string, 0, len(embeddings))
	for id := range embeddings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]db.JSONSetItem, 0, len(ids))
	for _, id := range ids {
		data, err := json.Marshal(embeddings[id])
		if err != nil {
			return fmt.Errorf("marshal embedding %s: %w", id, err)
		}
		items = append(items, db.JSONSetItem{Key: jobKey(id), Path: "$.embedding", Data: data})
	}
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store embeddings: %w", err)
	}
	return nil
}

func parseDoc(id string, raw []byte) (domjob.Job, error) {
	var d jobDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domjob.Job{}, fmt.Errorf("unmarshal job %s: %w", id, err)
	}
	return fromDoc(id, d), nil
}

func jobKey(id string) string {
	return keyPrefix + id
}
