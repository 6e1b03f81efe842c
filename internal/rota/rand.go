package rota

import (
	"math/rand"
	"sort"
	"time"
)

// NewRand builds the seedable source the engines shuffle with. A fixed
// seed reproduces a run exactly; production callers seed from the clock so
// every regeneration may produce a different valid roster.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return NewRand(time.Now().UnixNano())
}

func shuffleIDs(rng *rand.Rand, ids []string) {
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func sortIDs(ids []string) {
	sort.Strings(ids)
}
