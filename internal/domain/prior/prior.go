// Package prior maintains a user's belief over which jobs are relevant to them.
//
// A Prior maps job ids to non-negative weights. Initialize derives it from the
// similarity between the user's profile embedding and every job; UpdatePosterior
// revises it after the user applies to a job (prior x likelihood, renormalized).
// Both cover exactly the catalog they were given. Insert and Remove keep it in
// step with catalog edits without renormalizing the remaining mass.
package prior

import (
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/jobrec/internal/domain"
	"github.com/kailas-cloud/jobrec/internal/domain/catalog"
	"github.com/kailas-cloud/jobrec/internal/domain/vector"
)

// DefaultTemperature is the softmax temperature of the click likelihood.
const DefaultTemperature = 2.0

// Prior maps job id to weight.
type Prior map[string]float64

// Initialize computes the starting distribution for a user embedding: cosine
// similarity to every job, rescaled from [-1,1] to [0,1] and normalized to sum
// to 1. An empty catalog yields an empty prior.
func Initialize(userEmbedding []float32, c catalog.Catalog) (Prior, error) {
	if c.Len() == 0 {
		return Prior{}, nil
	}

	sims, err := similarities(userEmbedding, c)
	if err != nil {
		return nil, fmt.Errorf("initialize prior: %w", err)
	}

	weights := make([]float64, len(sims))
	for i, s := range sims {
		weights[i] = Rescale(s)
	}

	normalized, err := normalize(weights)
	if errors.Is(err, domain.ErrEmptyDistribution) {
		normalized = uniform(len(weights))
	}
	return fromSlice(c.IDs(), normalized), nil
}

// UpdatePosterior revises p after the user acted on a job with embedding
// clicked. The likelihood of each catalog job is a temperature softmax over its
// similarity to the clicked job. Catalog jobs missing from p weigh 0; entries of
// p missing from the catalog are dropped. Fails with domain.ErrEmptyDistribution
// when p has no mass on the current catalog.
func UpdatePosterior(p Prior, clicked []float32, c catalog.Catalog, temperature float64) (Prior, error) {
	if temperature <= 0 || math.IsNaN(temperature) {
		return nil, fmt.Errorf("temperature %v: %w", temperature, domain.ErrInvalidTemperature)
	}

	sims, err := similarities(clicked, c)
	if err != nil {
		return nil, fmt.Errorf("update posterior: %w", err)
	}

	likelihood := Softmax(sims, temperature)
	weights := p.Reconcile(c)
	for i := range weights {
		weights[i] *= likelihood[i]
	}

	posterior, err := normalize(weights)
	if err != nil {
		return nil, fmt.Errorf("update posterior: %w", err)
	}
	return fromSlice(c.IDs(), posterior), nil
}

// Softmax returns exp(s_i/T) / sum_j exp(s_j/T). The maximum is subtracted
// before exponentiation; the result is unchanged.
func Softmax(sims []float64, temperature float64) []float64 {
	out := make([]float64, len(sims))
	if len(sims) == 0 {
		return out
	}
	maxS := math.Inf(-1)
	for _, s := range sims {
		maxS = math.Max(maxS, s)
	}
	var sum float64
	for i, s := range sims {
		out[i] = math.Exp((s - maxS) / temperature)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Rescale maps a cosine similarity from [-1,1] to [0,1].
func Rescale(sim float64) float64 {
	return (sim + 1) / 2
}

// SimilarityWeight is the rescaled cosine similarity of two embeddings. A
// zero-norm vector counts as similarity 0.
func SimilarityWeight(a, b []float32) (float64, error) {
	s, err := vector.CosineOrZero(a, b)
	if err != nil {
		return 0, fmt.Errorf("similarity weight: %w", err)
	}
	return Rescale(s), nil
}

// Reconcile returns p's weights aligned with the catalog order. Jobs the prior
// does not cover, and invalid weights, count as 0.
func (p Prior) Reconcile(c catalog.Catalog) []float64 {
	ids := c.IDs()
	out := make([]float64, len(ids))
	for i, id := range ids {
		w := p[id]
		if w > 0 && !math.IsInf(w, 0) {
			out[i] = w
		}
	}
	return out
}

// Sum returns the total mass.
func (p Prior) Sum() float64 {
	var s float64
	for _, w := range p {
		s += w
	}
	return s
}

// ScaledWeight maps probability into the [min, max] range of the existing
// weights, excluding jobID's own entry. With no other weights it returns
// probability unchanged.
func (p Prior) ScaledWeight(jobID string, probability float64) float64 {
	first := true
	var lo, hi float64
	for id, w := range p {
		if id == jobID {
			continue
		}
		if first {
			lo, hi = w, w
			first = false
			continue
		}
		lo = math.Min(lo, w)
		hi = math.Max(hi, w)
	}
	if first {
		return probability
	}
	return lo + probability*(hi-lo)
}

// Insert adds jobID with probability scaled into the existing range and returns
// the stored weight. The rest of the distribution is left as is.
func (p Prior) Insert(jobID string, probability float64) float64 {
	w := p.ScaledWeight(jobID, probability)
	p[jobID] = w
	return w
}

// Remove drops jobID. The remaining weights are not renormalized.
func (p Prior) Remove(jobID string) {
	delete(p, jobID)
}

// Clone returns an independent copy.
func (p Prior) Clone() Prior {
	c := make(Prior, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

func similarities(query []float32, c catalog.Catalog) ([]float64, error) {
	sims, err := vector.CosineBatch(query, c.Vectors())
	if errors.Is(err, domain.ErrDegenerateVector) {
		return make([]float64, c.Len()), nil
	}
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by callers
	}
	return sims, nil
}

func normalize(w []float64) ([]float64, error) {
	var sum float64
	for _, x := range w {
		sum += x
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, domain.ErrEmptyDistribution
	}
	out := make([]float64, len(w))
	for i, x := range w {
		out[i] = x / sum
	}
	return out, nil
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

func fromSlice(ids []string, w []float64) Prior {
	p := make(Prior, len(ids))
	for i, id := range ids {
		p[id] = w[i]
	}
	return p
}
