package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic
// bootstrap runs. Streams are isolated per name so concurrent analyses
// never interfere with each other's reproducibility.
type RNG interface {
	// SeededStream creates a deterministic generator for a named operation.
	SeededStream(name string, seed int64) *rand.Rand

	// StreamSeed derives the seed a named stream would use, for callers
	// that pass seeds onward instead of generators.
	StreamSeed(name string, base int64) int64
}
