package traits

import (
	"fmt"
	"strconv"
	"strings"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

const (
	KindColor = "color"

	defaultColorStep = 16
)

type RGB struct {
	R, G, B uint8
}

func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: color %q is not #rrggbb", ErrInvalidValue, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %v", ErrInvalidValue, s, err)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorRule shifts one random channel by up to ±Step and blends ties
// channel by channel.
type ColorRule struct {
	Step int
}

func (r ColorRule) Mutate(value RGB, rng genetic.Rand) (RGB, error) {
	step := r.Step
	if step <= 0 {
		step = defaultColorStep
	}
	delta := int((rng.Float64()*2 - 1) * float64(step))
	switch pick(rng, 3) {
	case 0:
		value.R = shiftChannel(value.R, delta)
	case 1:
		value.G = shiftChannel(value.G, delta)
	default:
		value.B = shiftChannel(value.B, delta)
	}
	return value, nil
}

func (r ColorRule) Fuse(paternal, maternal RGB) (RGB, error) {
	return RGB{
		R: uint8((int(paternal.R) + int(maternal.R)) / 2),
		G: uint8((int(paternal.G) + int(maternal.G)) / 2),
		B: uint8((int(paternal.B) + int(maternal.B)) / 2),
	}, nil
}

func (r ColorRule) params() map[string]any {
	return map[string]any{"step": r.Step}
}

func shiftChannel(c uint8, delta int) uint8 {
	return uint8(min(max(int(c)+delta, 0), 255))
}

func NewColor(value RGB, dominant bool, mutationProbability float64, rule ColorRule) (*genetic.Allele[RGB], error) {
	return genetic.NewAllele[RGB](KindColor, value, dominant, mutationProbability, rule)
}

func buildColor(rec model.AlleleRecord) (genetic.AlleleHandle, error) {
	raw, ok := asString(rec.Value)
	if !ok {
		return nil, fmt.Errorf("%w: color value %v", ErrInvalidValue, rec.Value)
	}
	value, err := ParseRGB(raw)
	if err != nil {
		return nil, err
	}
	var rule ColorRule
	if rule.Step, err = paramInt(rec.Params, "step"); err != nil {
		return nil, err
	}
	a, err := NewColor(value, rec.Dominant, rec.MutationProbability, rule)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func recordColor(h genetic.AlleleHandle) (model.AlleleRecord, error) {
	return snapshot(KindColor, h,
		func(v RGB) any { return v.String() },
		ColorRule.params,
	)
}
