// Package randengine wraps golang.org/x/exp/rand with a few distribution
// helpers, threaded explicitly through each scenario rather than drawn
// from a package global (§5b: two runs with the same seed must produce
// the same trace). cmd/simulate draws trip spawn-time jitter from it.
package randengine

import (
	"log"
	"sync"

	"golang.org/x/exp/rand"
)

// Engine is a seeded random source plus the handful of distributions
// the simulator draws from. The embedded *rand.Rand covers everything
// else (Float64, Intn, etc).
type Engine struct {
	*rand.Rand
	mtx sync.Mutex
}

// New creates an engine seeded from a scenario's configured seed. Two
// Engines built from the same seed produce identical draw sequences.
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed))}
}

// DiscreteDistribution draws an index in [0, len(weight)) with
// probability proportional to weight[i] (not thread-safe).
func (e *Engine) DiscreteDistribution(weight []float64) int {
	return discreteDraw(weight, e.Float64())
}

// DiscreteDistributionSafe is the thread-safe form of DiscreteDistribution.
func (e *Engine) DiscreteDistributionSafe(weight []float64) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return discreteDraw(weight, e.Float64())
}

func discreteDraw(weight []float64, u float64) int {
	var total float64
	for _, w := range weight {
		total += w
	}
	target := total * u
	sum := 0.0
	for i, w := range weight {
		sum += w
		if sum > target {
			return i
		}
	}
	if len(weight) == 0 {
		log.Panicf("randengine: DiscreteDistribution: empty weight vector")
	}
	return len(weight) - 1
}

// PTrue returns true with probability p (not thread-safe).
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// PTrueSafe is the thread-safe form of PTrue.
func (e *Engine) PTrueSafe(p float64) bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64() < p
}

// IntnSafe is the thread-safe form of Intn.
func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}

// Float64Safe is the thread-safe form of Float64.
func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}
