package traits

import (
	"fmt"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

const (
	KindScalar = "scalar"

	defaultScalarStep = 0.1
)

// ScalarRule perturbs a float uniformly within ±Step and fuses by mean.
// Values are clamped to [Min, Max] when Max > Min.
type ScalarRule struct {
	Step float64
	Min  float64
	Max  float64
}

func (r ScalarRule) Mutate(value float64, rng genetic.Rand) (float64, error) {
	step := r.Step
	if step <= 0 {
		step = defaultScalarStep
	}
	return r.clamp(value + (rng.Float64()*2-1)*step), nil
}

func (r ScalarRule) Fuse(paternal, maternal float64) (float64, error) {
	return (paternal + maternal) / 2, nil
}

func (r ScalarRule) bounded() bool {
	return r.Max > r.Min
}

func (r ScalarRule) clamp(v float64) float64 {
	if !r.bounded() {
		return v
	}
	return min(max(v, r.Min), r.Max)
}

func (r ScalarRule) params() map[string]any {
	out := map[string]any{"step": r.Step}
	if r.bounded() {
		out["min"] = r.Min
		out["max"] = r.Max
	}
	return out
}

func NewScalar(value float64, dominant bool, mutationProbability float64, rule ScalarRule) (*genetic.Allele[float64], error) {
	if rule.bounded() && (value < rule.Min || value > rule.Max) {
		return nil, fmt.Errorf("%w: scalar %v outside [%v, %v]", ErrInvalidValue, value, rule.Min, rule.Max)
	}
	return genetic.NewAllele[float64](KindScalar, value, dominant, mutationProbability, rule)
}

func buildScalar(rec model.AlleleRecord) (genetic.AlleleHandle, error) {
	value, ok := asFloat64(rec.Value)
	if !ok {
		return nil, fmt.Errorf("%w: scalar value %v", ErrInvalidValue, rec.Value)
	}
	var rule ScalarRule
	var err error
	if rule.Step, err = paramFloat(rec.Params, "step"); err != nil {
		return nil, err
	}
	if rule.Min, err = paramFloat(rec.Params, "min"); err != nil {
		return nil, err
	}
	if rule.Max, err = paramFloat(rec.Params, "max"); err != nil {
		return nil, err
	}
	a, err := NewScalar(value, rec.Dominant, rec.MutationProbability, rule)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func recordScalar(h genetic.AlleleHandle) (model.AlleleRecord, error) {
	return snapshot(KindScalar, h,
		func(v float64) any { return v },
		ScalarRule.params,
	)
}
