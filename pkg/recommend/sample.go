package recommend

import "math/rand/v2"

// Rand is the randomness the engine draws from. *rand.Rand from math/rand/v2
// satisfies it, which lets tests pass a seeded source.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the math/rand/v2 top-level functions, which are safe for
// concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Sample picks k candidates uniformly at random without replacement. The
// input slice is left untouched. Asking for more items than exist returns an
// *InsufficientResultsError rather than a shorter or repeating sample.
func Sample(r Rand, candidates []string, k int) ([]string, error) {
	if k <= 0 {
		return nil, ErrInvalidSampleSize
	}
	if len(candidates) < k {
		return nil, &InsufficientResultsError{Want: k, Have: len(candidates)}
	}
	pool := make([]string, len(candidates))
	copy(pool, candidates)
	// Partial Fisher-Yates: after step i, pool[:i+1] is the sample so far.
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k], nil
}
