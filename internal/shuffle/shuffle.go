// Package shuffle implements the Fisher-Yates permutation used to randomize
// deck order.
package shuffle

import "math/rand/v2"

// Source draws integers uniformly from [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default is backed by the auto-seeded math/rand/v2 generator.
var Default Source = globalSource{}

// Slice returns a uniformly random permutation of in using Default.
func Slice[T any](in []T) []T {
	return SliceWith(Default, in)
}

// SliceWith returns a uniformly random permutation of in drawn from src.
// The input slice is never modified.
func SliceWith[T any](src Source, in []T) []T {
	if src == nil {
		src = Default
	}
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
