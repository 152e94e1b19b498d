package traits

import (
	"errors"
	"fmt"
	"math"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

var ErrInvalidValue = errors.New("invalid allele value")

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

func paramFloat(params map[string]any, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, nil
	}
	v, ok := asFloat64(raw)
	if !ok {
		return 0, fmt.Errorf("%w: param %s=%v is not a number", ErrInvalidValue, key, raw)
	}
	return v, nil
}

func paramInt(params map[string]any, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, nil
	}
	v, ok := asInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: param %s=%v is not an integer", ErrInvalidValue, key, raw)
	}
	return v, nil
}

func paramStrings(params map[string]any, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok {
		return nil, nil
	}
	switch x := raw.(type) {
	case []string:
		return append([]string(nil), x...), nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := asString(item)
			if !ok {
				return nil, fmt.Errorf("%w: param %s contains %v", ErrInvalidValue, key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: param %s=%v is not a list", ErrInvalidValue, key, raw)
	}
}

// snapshot turns a typed allele back into its record form.
func snapshot[T any, R genetic.Rule[T]](
	kind string,
	h genetic.AlleleHandle,
	value func(T) any,
	params func(R) map[string]any,
) (model.AlleleRecord, error) {
	a, ok := h.(*genetic.Allele[T])
	if !ok || a == nil {
		return model.AlleleRecord{}, fmt.Errorf("%w: %s cannot record %T", genetic.ErrTypeMismatch, kind, h)
	}
	rule, ok := a.Rule().(R)
	if !ok {
		return model.AlleleRecord{}, fmt.Errorf("%w: %s allele carries rule %T", genetic.ErrTypeMismatch, kind, a.Rule())
	}
	return model.AlleleRecord{
		Kind:                a.Kind(),
		Value:               value(a.Decode()),
		Dominant:            a.IsDominant(),
		MutationProbability: a.MutationProbability(),
		Params:              params(rule),
	}, nil
}

func pick(rng genetic.Rand, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
