package traits

import (
	"fmt"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

const KindFlag = "flag"

// FlagRule toggles on mutation. A tie is expressed only when both alleles
// carry the trait.
type FlagRule struct{}

func (FlagRule) Mutate(value bool, _ genetic.Rand) (bool, error) {
	return !value, nil
}

func (FlagRule) Fuse(paternal, maternal bool) (bool, error) {
	return paternal && maternal, nil
}

func NewFlag(value bool, dominant bool, mutationProbability float64) (*genetic.Allele[bool], error) {
	return genetic.NewAllele[bool](KindFlag, value, dominant, mutationProbability, FlagRule{})
}

func buildFlag(rec model.AlleleRecord) (genetic.AlleleHandle, error) {
	value, ok := asBool(rec.Value)
	if !ok {
		return nil, fmt.Errorf("%w: flag value %v", ErrInvalidValue, rec.Value)
	}
	a, err := NewFlag(value, rec.Dominant, rec.MutationProbability)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func recordFlag(h genetic.AlleleHandle) (model.AlleleRecord, error) {
	return snapshot(KindFlag, h,
		func(v bool) any { return v },
		func(FlagRule) map[string]any { return nil },
	)
}
