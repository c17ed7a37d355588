package user

import (
	"context"
	"testing"

	"github.com/kailas-cloud/jobrec/internal/db"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn       func(ctx context.Context, key, path string, data []byte) error
	jsonSetNXFn     func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn       func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonArrAppendFn func(ctx context.Context, key, path string, values ...[]byte) error
	delFn           func(ctx context.Context, key string) error
	existsFn        func(ctx context.Context, key string) (bool, error)
	scanFn          func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONSetNX(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetNXFn != nil {
		return m.jsonSetNXFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) JSONArrAppend(ctx context.Context, key, path string, values ...[]byte) error {
	if m.jsonArrAppendFn != nil {
		return m.jsonArrAppendFn(ctx, key, path, values...)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testUser(t *testing.T) domuser.User {
	t.Helper()
	p, err := domuser.NewProfile(domuser.Profile{
		Name:       "Ada",
		Email:      "ada@example.com",
		Skills:     "Go",
		Education:  []domuser.Education{{School: "UCL", Degree: "BSc"}},
		Experience: []domuser.Experience{{Company: "Acme", Position: "Engineer"}},
	})
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	return domuser.New("u-1", p, []float32{1, 0})
}
