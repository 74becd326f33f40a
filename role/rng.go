// RNG utilities for randomized proposal strategies.
//
// Goals:
//   - Determinism: same seed ⇒ identical proposals regardless of how agent
//     steps are scheduled (sequentially or in parallel).
//   - Isolation: every agent draws from its own stream derived from the run
//     seed and its ID; no stream is shared between goroutines.
package role

import "math/rand"

// defaultRNGSeed is used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use defaultRNGSeed; otherwise use the provided seed verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}
	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with a SplitMix64-style finalizer, so neighbouring agent IDs get
// uncorrelated streams.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// agentRNG returns the stream of agent id under the run seed.
func agentRNG(seed int64, id int) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}
	return rngFromSeed(deriveSeed(seed, uint64(id)))
}
