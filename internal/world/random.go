package world

import (
	"hash/fnv"
	"math/rand"

	"github.com/noleforte/DRAW-sub001/internal/geom"
)

// DeterministicSeedValue folds a root seed and subsystem label into a stable
// non-zero seed so independent subsystems draw from decorrelated streams.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG builds a rand.Rand seeded from (rootSeed, label).
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

// RandomPosition returns a uniformly random point within the world bounds.
func (w *World) RandomPosition() geom.Vec2 {
	half := w.cfg.Size / 2
	rng := w.rng
	return geom.Vec2{
		X: -half + rng.Float64()*w.cfg.Size,
		Y: -half + rng.Float64()*w.cfg.Size,
	}
}
