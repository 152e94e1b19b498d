package traits

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

type fixedRand []float64

func (f *fixedRand) Float64() float64 {
	v := (*f)[0]
	*f = append((*f)[1:], v)
	return v
}

func draws(values ...float64) *fixedRand {
	f := fixedRand(values)
	return &f
}

func TestScalarRule(t *testing.T) {
	rule := ScalarRule{Step: 0.5, Min: 0, Max: 1}

	got, err := rule.Mutate(0.5, draws(1.0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)

	got, err = rule.Mutate(0.9, draws(0.99))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got, "clamped to max")

	got, err = rule.Mutate(0.2, draws(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got, "clamped to min")

	fused, err := rule.Fuse(0.2, 0.6)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, fused, 1e-9)

	_, err = NewScalar(2, true, 0, rule)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestIntegerRule(t *testing.T) {
	rule := IntegerRule{Step: 3, Min: 0, Max: 10}

	// magnitude draw 0.7 -> 1+2, sign draw 0.9 -> positive
	got, err := rule.Mutate(5, draws(0.7, 0.9))
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	got, err = rule.Mutate(1, draws(0.99, 0.1))
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	fused, err := rule.Fuse(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, fused)

	fused, err = IntegerRule{}.Fuse(-3, -4)
	require.NoError(t, err)
	assert.Equal(t, -4, fused)

	fused, err = IntegerRule{}.Fuse(math.MaxInt, math.MaxInt-1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt-1, fused)

	fused, err = IntegerRule{}.Fuse(math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, fused)
}

func TestFlagRule(t *testing.T) {
	got, err := FlagRule{}.Mutate(true, nil)
	require.NoError(t, err)
	assert.False(t, got)

	fused, err := FlagRule{}.Fuse(true, false)
	require.NoError(t, err)
	assert.False(t, fused)
	fused, err = FlagRule{}.Fuse(true, true)
	require.NoError(t, err)
	assert.True(t, fused)
}

func TestChoiceRule(t *testing.T) {
	rule := ChoiceRule{Options: []string{"round", "wrinkled", "dented"}}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		got, err := rule.Mutate("round", rng)
		require.NoError(t, err)
		require.NotEqual(t, "round", got)
		require.Contains(t, rule.Options, got)
	}

	got, err := ChoiceRule{Options: []string{"only"}}.Mutate("only", rng)
	require.NoError(t, err)
	assert.Equal(t, "only", got)

	fused, err := rule.Fuse("wrinkled", "round")
	require.NoError(t, err)
	assert.Equal(t, "wrinkled", fused)

	_, err = NewChoice("square", true, 0, rule.Options)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestColorRule(t *testing.T) {
	c, err := ParseRGB("#10ff80")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0x10, G: 0xff, B: 0x80}, c)
	assert.Equal(t, "#10ff80", c.String())

	_, err = ParseRGB("green")
	require.ErrorIs(t, err, ErrInvalidValue)

	// delta draw 1.0 -> +16 on channel draw 0.5 -> green, clamped
	got, err := ColorRule{Step: 16}.Mutate(c, draws(1.0, 0.5))
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0x10, G: 0xff, B: 0x80}, got)

	got, err = ColorRule{Step: 16}.Mutate(c, draws(0, 0))
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0x00, G: 0xff, B: 0x80}, got)

	fused, err := ColorRule{}.Fuse(RGB{R: 0, G: 100, B: 255}, RGB{R: 255, G: 50, B: 255})
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 127, G: 75, B: 255}, fused)
}

func peaSpecies() []model.AlleleRecord {
	return []model.AlleleRecord{
		{Kind: KindScalar, Value: 1.2, Dominant: true, MutationProbability: 0.1, Params: map[string]any{"step": 0.2, "min": 0.0, "max": 3.0}},
		{Kind: KindInteger, Value: 4, MutationProbability: 0.05, Params: map[string]any{"step": 2}},
		{Kind: KindFlag, Value: true, Dominant: true},
		{Kind: KindChoice, Value: "round", Dominant: true, Params: map[string]any{"options": []any{"round", "wrinkled"}}},
		{Kind: KindColor, Value: "#40a040", MutationProbability: 0.2, Params: map[string]any{"step": 8}},
	}
}

func TestRegistryRoundTripThroughJSON(t *testing.T) {
	reg := DefaultRegistry()
	handles, err := reg.BuildAll(peaSpecies())
	require.NoError(t, err)
	require.Len(t, handles, 5)

	records, err := reg.RecordAll(handles)
	require.NoError(t, err)
	payload, err := json.Marshal(records)
	require.NoError(t, err)

	var decoded []model.AlleleRecord
	require.NoError(t, json.Unmarshal(payload, &decoded))
	rebuilt, err := reg.BuildAll(decoded)
	require.NoError(t, err)

	for i := range handles {
		assert.Equal(t, handles[i].Kind(), rebuilt[i].Kind())
		assert.Equal(t, handles[i].Value(), rebuilt[i].Value())
		assert.Equal(t, handles[i].IsDominant(), rebuilt[i].IsDominant())
		assert.Equal(t, handles[i].MutationProbability(), rebuilt[i].MutationProbability())
	}
	assert.Equal(t, ChoiceRule{Options: []string{"round", "wrinkled"}}, rebuilt[3].(*genetic.Allele[string]).Rule())
	assert.Equal(t, ScalarRule{Step: 0.2, Min: 0, Max: 3}, rebuilt[0].(*genetic.Allele[float64]).Rule())
}

func TestRegistryErrors(t *testing.T) {
	reg := DefaultRegistry()

	_, err := reg.Build(model.AlleleRecord{Kind: "tail"})
	require.ErrorIs(t, err, ErrKindNotFound)

	_, err = reg.Build(model.AlleleRecord{Kind: KindScalar, Value: "tall"})
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = reg.BuildAll([]model.AlleleRecord{{Kind: KindFlag, Value: true}, {Kind: KindInteger, Value: 1.5}})
	require.ErrorIs(t, err, ErrInvalidValue)
	var locusErr *genetic.LocusError
	require.ErrorAs(t, err, &locusErr)
	assert.Equal(t, 1, locusErr.Locus)

	err = reg.Register(Spec{Kind: KindFlag, Build: buildFlag, Record: recordFlag})
	require.ErrorIs(t, err, ErrKindExists)

	assert.Equal(t, []string{"choice", "color", "flag", "integer", "scalar"}, reg.Kinds())
}

func TestRecordRejectsForeignAllele(t *testing.T) {
	foreign, err := genetic.NewAllele[float64](KindScalar, 1, true, 0, genetic.RuleFuncs[float64]{})
	require.NoError(t, err)

	_, err = DefaultRegistry().Record(foreign)
	require.ErrorIs(t, err, genetic.ErrTypeMismatch)
}

func TestProfileDecodesSpecies(t *testing.T) {
	reg := DefaultRegistry()
	genes, err := reg.BuildAll(peaSpecies())
	require.NoError(t, err)
	founder, err := genetic.NewFounder(genes)
	require.NoError(t, err)

	names := []string{"height", "pods", "tendrils", "shape", "hue"}
	rng := rand.New(rand.NewSource(3))
	child, err := genetic.Cross(founder, founder, rng)
	require.NoError(t, err)

	profile := NewProfile(names)
	require.NoError(t, child.Decode(profile))
	require.Len(t, profile.Traits(), len(names))

	hue, ok := profile.Get("hue")
	require.True(t, ok)
	assert.IsType(t, "", hue)
	_, ok = profile.Get("wings")
	assert.False(t, ok)
	assert.Contains(t, profile.String(), "shape=")

	err = founder.Decode(NewProfile(names[:2]))
	require.ErrorIs(t, err, genetic.ErrLocusCountMismatch)
}

func TestNormalizeKind(t *testing.T) {
	cases := map[string]string{
		"Scalar":         KindScalar,
		"float":          KindScalar,
		" Boolean ":      KindFlag,
		"enum":           KindChoice,
		"int_allele":     KindInteger,
		"RGB":            KindColor,
		"hex color":      KindColor,
		"wing_pattern":   "wing-pattern",
		"--":             "",
		"colour-allele":  KindColor,
		"ColorAllele":    KindColor,
		"flag":           KindFlag,
		"discrete count": "discrete-count",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeKind(in), in)
	}
}

func TestRegistryResolvesAliases(t *testing.T) {
	reg := DefaultRegistry()
	h, err := reg.Build(model.AlleleRecord{Kind: "Boolean", Value: true, Dominant: true})
	require.NoError(t, err)
	assert.Equal(t, KindFlag, h.Kind())

	rec, err := reg.Record(h)
	require.NoError(t, err)
	assert.Equal(t, KindFlag, rec.Kind)

	err = reg.Register(Spec{Kind: " FLAG ", Build: buildFlag, Record: recordFlag})
	require.ErrorIs(t, err, ErrKindExists)
}
