package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/jobrec/internal/db"
	"github.com/kailas-cloud/jobrec/internal/domain"
)

// --- Create ---

func TestCreate_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	j := testJob(t)

	var stored []byte
	ms.jsonSetNXFn = func(_ context.Context, key, path string, data []byte) error {
		if key != "jobrec:job:job-1" {
			t.Errorf("unexpected key: %s", key)
		}
		if path != "$" {
			t.Errorf("unexpected path: %s", path)
		}
		stored = data
		return nil
	}

	if err := repo.Create(context.Background(), &j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(stored, &doc); err != nil {
		t.Fatalf("stored invalid JSON: %v", err)
	}
	if doc["title"] != "Backend Engineer" || doc["employment_type"] != "full-time" {
		t.Errorf("unexpected document: %v", doc)
	}
	if _, ok := doc["salary"]; !ok {
		t.Error("expected salary in document")
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, ms := newTestRepo(t)
	j := testJob(t)

	ms.jsonSetNXFn = func(_ context.Context, _, _ string, _ []byte) error {
		return db.ErrKeyExists
	}

	if err := repo.Create(context.Background(), &j); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

// --- Get ---

func TestGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	j := testJob(t)

	var stored []byte
	ms.jsonSetNXFn = func(_ context.Context, _, _ string, data []byte) error {
		stored = data
		return nil
	}
	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return stored, nil
	}

	if err := repo.Create(context.Background(), &j); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID() != "job-1" || got.Fields().Company != "Acme" {
		t.Errorf("unexpected job: %+v", got.Fields())
	}
	if got.Fields().Salary.Min == nil || *got.Fields().Salary.Min != 50000 {
		t.Errorf("salary lost: %+v", got.Fields().Salary)
	}
	if len(got.Embedding()) != 2 || got.Embedding()[1] != 0.2 {
		t.Errorf("embedding lost: %v", got.Embedding())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	_, err := repo.Get(context.Background(), "job-1")
	if err == nil || errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

// --- Update / Delete ---

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	j := testJob(t)

	if err := repo.Update(context.Background(), &j); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	j := testJob(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	var called bool
	ms.jsonSetFn = func(_ context.Context, key, path string, _ []byte) error {
		called = key == "jobrec:job:job-1" && path == "$"
		return nil
	}

	if err := repo.Update(context.Background(), &j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected JSON.SET on the job key")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := repo.Delete(context.Background(), "job-1"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := repo.Delete(context.Background(), "job-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "jobrec:job:job-1" {
		t.Errorf("unexpected key deleted: %s", deleted)
	}
}

// --- List ---

func TestList_SortedAndSkipsVanished(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "jobrec:job:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"jobrec:job:b", "jobrec:job:gone", "jobrec:job:a"}, nil
	}
	ms.jsonGetMultiFn = func(_ context.Context, keys []string, _ string) ([][]byte, error) {
		out := make([][]byte, len(keys))
		for i, k := range keys {
			switch k {
			case "jobrec:job:a":
				out[i] = []byte(`{"id":"a","title":"A","embedding":[1,0]}`)
			case "jobrec:job:b":
				out[i] = []byte(`{"id":"b","title":"B"}`)
			}
		}
		return out, nil
	}

	jobs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID() != "a" || jobs[1].ID() != "b" {
		t.Errorf("expected order [a b], got [%s %s]", jobs[0].ID(), jobs[1].ID())
	}
	if !jobs[0].HasEmbedding() || jobs[1].HasEmbedding() {
		t.Error("embedding presence not preserved")
	}
}

func TestList_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetMultiFn = func(_ context.Context, _ []string, _ string) ([][]byte, error) {
		t.Fatal("JSON.GET must not be issued for an empty scan")
		return nil, nil
	}

	jobs, err := repo.List(context.Background())
	if err != nil || len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %v (%v)", jobs, err)
	}
}

func TestList_CorruptDocument(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"jobrec:job:a"}, nil
	}
	ms.jsonGetMultiFn = func(_ context.Context, _ []string, _ string) ([][]byte, error) {
		return [][]byte{[]byte(`{not json`)}, nil
	}

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

// --- SetEmbeddings ---

func TestSetEmbeddings(t *testing.T) {
	repo, ms := newTestRepo(t)

	var items []db.JSONSetItem
	ms.jsonSetMultiFn = func(_ context.Context, in []db.JSONSetItem) error {
		items = in
		return nil
	}

	err := repo.SetEmbeddings(context.Background(), map[string][]float32{
		"b": {0, 1},
		"a": {1, 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != "jobrec:job:a" || items[0].Path != "$.embedding" || string(items[0].Data) != "[1,0]" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestSetEmbeddings_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonSetMultiFn = func(_ context.Context, _ []db.JSONSetItem) error {
		t.Fatal("unexpected write")
		return nil
	}
	if err := repo.SetEmbeddings(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
