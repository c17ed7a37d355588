// Package vector holds the similarity primitives used by the ranking core.
package vector

import (
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/jobrec/internal/domain"
)

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of a and b. Lengths must match.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Cosine returns dot(a,b)/(|a|*|b|), clamped to [-1, 1].
// Fails with domain.ErrDimensionMismatch or domain.ErrDegenerateVector.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine of %d and %d dims: %w", len(a), len(b), domain.ErrDimensionMismatch)
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, domain.ErrDegenerateVector
	}
	return clamp(Dot(a, b) / (na * nb)), nil
}

// CosineBatch returns the similarity of query against every row; out[i]
// belongs to rows[i]. A zero-norm row scores 0. A zero-norm query fails with
// domain.ErrDegenerateVector, any length mismatch fails the whole batch.
func CosineBatch(query []float32, rows [][]float32) ([]float64, error) {
	qn := Norm(query)
	if qn == 0 {
		return nil, domain.ErrDegenerateVector
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(query) {
			return nil, fmt.Errorf("row %d has %d dims, query has %d: %w",
				i, len(row), len(query), domain.ErrDimensionMismatch)
		}
		rn := Norm(row)
		if rn == 0 {
			continue
		}
		out[i] = clamp(Dot(query, row) / (qn * rn))
	}
	return out, nil
}

// CosineOrZero is Cosine with degenerate input treated as similarity 0.
func CosineOrZero(a, b []float32) (float64, error) {
	s, err := Cosine(a, b)
	if errors.Is(err, domain.ErrDegenerateVector) {
		return 0, nil
	}
	return s, err
}

// Rounding can push |cos| slightly past 1.
func clamp(s float64) float64 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}
