// Package catalog is a read-only snapshot of job embeddings taken at the start
// of an operation.
package catalog

import "github.com/kailas-cloud/jobrec/internal/domain/job"

// Entry is one (job id, embedding) pair.
type Entry struct {
	ID        string
	Embedding []float32
}

// Catalog keeps ids and vectors in parallel slices: Vectors()[i] belongs to IDs()[i].
type Catalog struct {
	ids     []string
	vectors [][]float32
	index   map[string]int
}

// New builds a catalog from entries, skipping entries without an embedding.
// A repeated id keeps its first occurrence.
func New(entries []Entry) Catalog {
	c := Catalog{
		ids:     make([]string, 0, len(entries)),
		vectors: make([][]float32, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			continue
		}
		if _, dup := c.index[e.ID]; dup {
			continue
		}
		c.index[e.ID] = len(c.ids)
		c.ids = append(c.ids, e.ID)
		c.vectors = append(c.vectors, e.Embedding)
	}
	return c
}

// FromJobs builds a catalog from a job listing. Jobs that were never embedded are skipped.
func FromJobs(jobs []job.Job) Catalog {
	entries := make([]Entry, len(jobs))
	for i := range jobs {
		entries[i] = Entry{ID: jobs[i].ID(), Embedding: jobs[i].Embedding()}
	}
	return New(entries)
}

// Len returns the number of embedded jobs.
func (c Catalog) Len() int { return len(c.ids) }

// IDs returns job ids in catalog order.
func (c Catalog) IDs() []string { return c.ids }

// Vectors returns embeddings in catalog order.
func (c Catalog) Vectors() [][]float32 { return c.vectors }

// Embedding returns the vector for id.
func (c Catalog) Embedding(id string) ([]float32, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.vectors[i], true
}

// Contains reports whether id is in the catalog.
func (c Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}
