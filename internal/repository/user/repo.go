package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/jobrec/internal/db"
	"github.com/kailas-cloud/jobrec/internal/domain"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
)

var keyPrefix = domain.KeyPrefix + "user:"

const historyPath = "$.history"

// store is the consumer interface for users (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetNX(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONArrAppend(ctx context.Context, key, path string, values ...[]byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/user.Repository and usecase/recommendation.UserStore.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new user. Returns domain.ErrAlreadyExists if the id is taken.
func (r *Repo) Create(ctx context.Context, u *domuser.User) error {
	key := userKey(u.ID())
	data, err := json.Marshal(toDoc(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.JSONSetNX(ctx, key, "$", data); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a user by id.
func (r *Repo) Get(ctx context.Context, id string) (domuser.User, error) {
	key := userKey(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	var d userDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domuser.User{}, fmt.Errorf("unmarshal user %s: %w", id, err)
	}
	return fromDoc(id, d), nil
}

// Update replaces an existing user document, history included.
func (r *Repo) Update(ctx context.Context, u *domuser.User) error {
	key := userKey(u.ID())
	if err := r.mustExist(ctx, key); err != nil {
		return err
	}
	data, err := json.Marshal(toDoc(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Delete removes a user.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := userKey(id)
	if err := r.mustExist(ctx, key); err != nil {
		return err
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// AppendHistory adds jobID to the end of the user's history.
// Duplicate checks are the caller's job.
func (r *Repo) AppendHistory(ctx context.Context, userID, jobID string) error {
	key := userKey(userID)
	data, err := json.Marshal(jobID)
	if err != nil {
		return fmt.Errorf("marshal job id: %w", err)
	}
	if err := r.store.JSONArrAppend(ctx, key, historyPath, data); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("json.arrappend %s: %w", key, err)
	}
	return nil
}

// SetHistory overwrites the user's history.
func (r *Repo) SetHistory(ctx context.Context, userID string, history []string) error {
	key := userKey(userID)
	if err := r.mustExist(ctx, key); err != nil {
		return err
	}
	if history == nil {
		history = []string{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, historyPath, data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// ListIDs returns every user id, sorted.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, keyPrefix))
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repo) mustExist(ctx context.Context, key string) error {
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

func userKey(id string) string {
	return keyPrefix + id
}
