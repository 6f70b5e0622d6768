package sim

import (
	"hash/fnv"
	"math/rand"
)

// SearchKey is the seed of an optimizer run. Two runs with the same key and the
// same optimizer settings produce the same schedules, whatever the worker count.
type SearchKey int64

// NewSearchKey wraps a --seed value.
func NewSearchKey(seed int64) SearchKey {
	return SearchKey(seed)
}

// Random streams drawn by the optimizer. Each stage of a generation has its
// own stream, so changing how often one stage draws (for example a larger
// tournament) does not shift the numbers seen by the others.
const (
	// SubsystemPopulation draws the random schedules of generation 0. It is
	// seeded with the key itself, so a given --seed always starts the search
	// from the same population no matter which other streams exist.
	SubsystemPopulation = "population"

	// SubsystemSelection draws tournament aspirants.
	SubsystemSelection = "selection"

	// SubsystemVariation draws crossover points and mutation decisions.
	SubsystemVariation = "variation"
)

// PartitionedRNG hands out one *rand.Rand per optimizer stage, all derived
// from a single SearchKey. Streams other than SubsystemPopulation are seeded
// with key XOR fnv1a64(name).
//
// Only the goroutine coordinating the search may call it; fitness workers
// never draw random numbers.
type PartitionedRNG struct {
	key        SearchKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG returns a PartitionedRNG with no streams created yet.
func NewPartitionedRNG(key SearchKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same *rand.Rand, so its sequence continues.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	seed := int64(p.key)
	if name != SubsystemPopulation {
		seed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the run's seed.
func (p *PartitionedRNG) Key() SearchKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
