package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/utils/randengine"
)

func TestSameSeedProducesSameSequence(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64Safe(), b.Float64Safe())
	}
}

func TestDiscreteDistributionRespectsZeroWeights(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 50; i++ {
		idx := e.DiscreteDistributionSafe([]float64{1, 0, 0})
		assert.Equal(t, 0, idx)
	}
}

func TestDiscreteDistributionPanicsOnEmpty(t *testing.T) {
	e := randengine.New(1)
	assert.Panics(t, func() { e.DiscreteDistribution(nil) })
}

func TestPTrueBounds(t *testing.T) {
	e := randengine.New(7)
	for i := 0; i < 20; i++ {
		assert.False(t, e.PTrueSafe(0))
	}
	for i := 0; i < 20; i++ {
		assert.True(t, e.PTrueSafe(1))
	}
}
