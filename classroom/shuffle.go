package classroom

import "math/rand"

// shuffle permutes s in place with a Fisher-Yates pass. Every permutation is
// equally likely given a uniform rng.
func shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
