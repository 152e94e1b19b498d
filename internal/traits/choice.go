package traits

import (
	"fmt"
	"slices"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

const KindChoice = "choice"

// ChoiceRule resamples one of the other Options on mutation. Ties resolve to
// the paternal option.
type ChoiceRule struct {
	Options []string
}

func (r ChoiceRule) Mutate(value string, rng genetic.Rand) (string, error) {
	others := make([]string, 0, len(r.Options))
	for _, option := range r.Options {
		if option != value {
			others = append(others, option)
		}
	}
	if len(others) == 0 {
		return value, nil
	}
	return others[pick(rng, len(others))], nil
}

func (r ChoiceRule) Fuse(paternal, _ string) (string, error) {
	return paternal, nil
}

func (r ChoiceRule) params() map[string]any {
	return map[string]any{"options": append([]string(nil), r.Options...)}
}

func NewChoice(value string, dominant bool, mutationProbability float64, options []string) (*genetic.Allele[string], error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: choice %q has no options", ErrInvalidValue, value)
	}
	if !slices.Contains(options, value) {
		return nil, fmt.Errorf("%w: choice %q not in %v", ErrInvalidValue, value, options)
	}
	rule := ChoiceRule{Options: append([]string(nil), options...)}
	return genetic.NewAllele[string](KindChoice, value, dominant, mutationProbability, rule)
}

func buildChoice(rec model.AlleleRecord) (genetic.AlleleHandle, error) {
	value, ok := asString(rec.Value)
	if !ok {
		return nil, fmt.Errorf("%w: choice value %v", ErrInvalidValue, rec.Value)
	}
	options, err := paramStrings(rec.Params, "options")
	if err != nil {
		return nil, err
	}
	a, err := NewChoice(value, rec.Dominant, rec.MutationProbability, options)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func recordChoice(h genetic.AlleleHandle) (model.AlleleRecord, error) {
	return snapshot(KindChoice, h,
		func(v string) any { return v },
		ChoiceRule.params,
	)
}
