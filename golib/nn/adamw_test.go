package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdamWFirstStep(t *testing.T) {
	params := [][]float64{{1, -2}}
	grads := [][]float64{{0.5, -4}}

	opt := NewAdamW(0.1)
	opt.Step(params, grads)

	stepSize := 0.1 * math.Sqrt(1-0.999) / (1 - 0.9)
	update := func(g float64) float64 {
		return stepSize * 0.1 * g / (math.Sqrt(0.001*g*g) + 1e-6)
	}
	assert.InDelta(t, 1-update(0.5), params[0][0], 1e-12)
	assert.InDelta(t, -2-update(-4), params[0][1], 1e-12)

	// roughly lr * sign(g)
	assert.InDelta(t, 0.9, params[0][0], 1e-3)
}

func TestAdamWSecondStep(t *testing.T) {
	params := [][]float64{{0}}
	opt := NewAdamW(0.01)
	opt.Step(params, [][]float64{{1}})
	opt.Step(params, [][]float64{{-1}})

	step1 := 0.01 * math.Sqrt(1-0.999) / (1 - 0.9)
	p := -step1 * 0.1 / (math.Sqrt(0.001) + 1e-6)

	m := 0.9*0.1 + 0.1*-1
	v := 0.999*0.001 + 0.001*1
	step2 := 0.01 * math.Sqrt(1-0.999*0.999) / (1 - 0.9*0.9)
	p -= step2 * m / (math.Sqrt(v) + 1e-6)

	assert.InDelta(t, p, params[0][0], 1e-12)
	assert.Equal(t, 2, opt.Steps())
}

func TestAdamWWeightDecay(t *testing.T) {
	params := [][]float64{{2}}
	opt := NewAdamW(0.1)
	opt.WeightDecay = 0.5
	opt.Step(params, [][]float64{{0}})

	// zero gradient: only the decay moves the weight
	assert.InDelta(t, 2*(1-0.05), params[0][0], 1e-12)
}
