// Package hash provides the seeded 64-bit hashing used by the filter
// packages. Filters derive all their bit indexes and fingerprints from
// two hash evaluations: one with a fixed default seed and one with the
// scheme seed (Kirsch-Mitzenmacher double hashing).
package hash

import (
	"math/rand"
	"sync"
	"time"

	metro "github.com/dgryski/go-metro"
)

// defaultSeed is the fixed seed of the first hash function. The second
// hash function is decorrelated from it by the scheme seed.
const defaultSeed uint64 = 0x9747b28c

var (
	seedOnce    sync.Once
	processSeed uint64
)

// ProcessSeed returns the process-wide random seed, drawing it exactly
// once on first use. All schemes built with New share it, so filters
// created at different times index identically within one process run.
func ProcessSeed() uint64 {
	seedOnce.Do(func() {
		processSeed = rand.New(rand.NewSource(time.Now().UnixNano())).Uint64()
	})
	return processSeed
}

// Scheme carries the seed of the second hash function. The zero value
// is not useful; construct with New or NewWithSeed.
type Scheme struct {
	seed uint64
}

func New() Scheme {
	return Scheme{seed: ProcessSeed()}
}

// NewWithSeed pins the second-hash seed, making index sequences
// reproducible across runs.
func NewWithSeed(seed uint64) Scheme {
	return Scheme{seed: seed}
}

func (s Scheme) Seed() uint64 {
	return s.seed
}

// Sum64 hashes data with the fixed default seed.
func Sum64(data []byte) uint64 {
	return metro.Hash64(data, defaultSeed)
}

// Sum64Seeded hashes data with the scheme seed.
func (s Scheme) Sum64Seeded(data []byte) uint64 {
	return metro.Hash64(data, s.seed)
}

// Indexes derives k bit indexes in [0, m) for data from two hash
// evaluations: index i is (h1 + i*h2) mod m.
func (s Scheme) Indexes(data []byte, k, m uint) []uint {
	h1 := Sum64(data)
	h2 := s.Sum64Seeded(data)
	indexes := make([]uint, k)
	for i := uint(0); i < k; i++ {
		indexes[i] = uint((h1 + uint64(i)*h2) % uint64(m))
	}
	return indexes
}
