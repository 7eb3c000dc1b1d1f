package embedding

import (
	"hash/fnv"
	"math/rand/v2"
)

// Degraded returns a deterministic stand-in vector for text, used when the
// provider is unavailable. It has the right dimension and unit length but no
// semantic meaning.
func Degraded(text string, dim int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	acc := make([]float64, dim)
	for i := range acc {
		acc[i] = rng.Float64()*2 - 1
	}
	return normalize(acc)
}
