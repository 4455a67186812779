package classroom

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffleIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	shuffle(rng, s)
	assert.Len(t, s, 9)
	sorted := append([]int(nil), s...)
	sort.Ints(sorted)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)

	shuffle(rng, []int{})
	one := []int{3}
	shuffle(rng, one)
	assert.Equal(t, []int{3}, one)
}

func TestShuffleCoversAllOrders(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[[3]int]int{}
	for i := 0; i < 3000; i++ {
		s := []int{1, 2, 3}
		shuffle(rng, s)
		seen[[3]int{s[0], s[1], s[2]}]++
	}
	assert.Len(t, seen, 6)
	for order, n := range seen {
		assert.InDelta(t, 500, n, 120, "order %v", order)
	}
}
