package traits

import (
	"fmt"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

const KindInteger = "integer"

// IntegerRule moves a count by 1..Step in either direction and fuses by the
// floored mean. Values are clamped to [Min, Max] when Max > Min.
type IntegerRule struct {
	Step int
	Min  int
	Max  int
}

func (r IntegerRule) Mutate(value int, rng genetic.Rand) (int, error) {
	step := max(r.Step, 1)
	delta := 1 + pick(rng, step)
	if rng.Float64() < 0.5 {
		delta = -delta
	}
	return r.clamp(value + delta), nil
}

func (r IntegerRule) Fuse(paternal, maternal int) (int, error) {
	return (paternal >> 1) + (maternal >> 1) + (paternal & maternal & 1), nil
}

func (r IntegerRule) bounded() bool {
	return r.Max > r.Min
}

func (r IntegerRule) clamp(v int) int {
	if !r.bounded() {
		return v
	}
	return min(max(v, r.Min), r.Max)
}

func (r IntegerRule) params() map[string]any {
	out := map[string]any{"step": r.Step}
	if r.bounded() {
		out["min"] = r.Min
		out["max"] = r.Max
	}
	return out
}

func NewInteger(value int, dominant bool, mutationProbability float64, rule IntegerRule) (*genetic.Allele[int], error) {
	if rule.bounded() && (value < rule.Min || value > rule.Max) {
		return nil, fmt.Errorf("%w: integer %d outside [%d, %d]", ErrInvalidValue, value, rule.Min, rule.Max)
	}
	return genetic.NewAllele[int](KindInteger, value, dominant, mutationProbability, rule)
}

func buildInteger(rec model.AlleleRecord) (genetic.AlleleHandle, error) {
	value, ok := asInt(rec.Value)
	if !ok {
		return nil, fmt.Errorf("%w: integer value %v", ErrInvalidValue, rec.Value)
	}
	var rule IntegerRule
	var err error
	if rule.Step, err = paramInt(rec.Params, "step"); err != nil {
		return nil, err
	}
	if rule.Min, err = paramInt(rec.Params, "min"); err != nil {
		return nil, err
	}
	if rule.Max, err = paramInt(rec.Params, "max"); err != nil {
		return nil, err
	}
	a, err := NewInteger(value, rec.Dominant, rec.MutationProbability, rule)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func recordInteger(h genetic.AlleleHandle) (model.AlleleRecord, error) {
	return snapshot(KindInteger, h,
		func(v int) any { return v },
		IntegerRule.params,
	)
}
