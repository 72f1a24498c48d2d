package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AdamW is Adam with bias correction and decoupled weight decay.
type AdamW struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	WeightDecay  float64

	step int
	m    [][]float64
	v    [][]float64
}

// NewAdamW returns an optimizer with betas (0.9, 0.999), epsilon 1e-6 and no
// weight decay.
func NewAdamW(lr float64) *AdamW {
	return &AdamW{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-6,
	}
}

// Steps returns the number of updates applied so far.
func (o *AdamW) Steps() int {
	return o.step
}

// Step updates params in place from grads; both list the same tensors in the
// same order on every call.
func (o *AdamW) Step(params, grads [][]float64) {
	if o.m == nil {
		for _, p := range params {
			o.m = append(o.m, make([]float64, len(p)))
			o.v = append(o.v, make([]float64, len(p)))
		}
	}
	o.step++

	t := float64(o.step)
	stepSize := o.LearningRate * math.Sqrt(1-math.Pow(o.Beta2, t)) / (1 - math.Pow(o.Beta1, t))

	for i, p := range params {
		g, m, v := grads[i], o.m[i], o.v[i]

		floats.Scale(o.Beta1, m)
		floats.AddScaled(m, 1-o.Beta1, g)
		for j, gj := range g {
			v[j] = o.Beta2*v[j] + (1-o.Beta2)*gj*gj
			p[j] -= stepSize * m[j] / (math.Sqrt(v[j]) + o.Epsilon)
		}
		if o.WeightDecay > 0 {
			floats.Scale(1-o.LearningRate*o.WeightDecay, p)
		}
	}
}
