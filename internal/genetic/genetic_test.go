package genetic

import (
	"fmt"
	"math/rand"
)

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	values []float64
	next   int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

var sumRule = RuleFuncs[int]{
	MutateFunc: func(v int, _ Rand) (int, error) { return v + 100, nil },
	FuseFunc:   func(a, b int) (int, error) { return a + b, nil },
}

var meanRule = RuleFuncs[float64]{
	MutateFunc: func(v float64, rng Rand) (float64, error) { return v + rng.Float64(), nil },
	FuseFunc:   func(a, b float64) (float64, error) { return (a + b) / 2, nil },
}

var labelRule = RuleFuncs[string]{
	MutateFunc: func(v string, _ Rand) (string, error) { return v + "'", nil },
	FuseFunc:   func(a, b string) (string, error) { return a + "/" + b, nil },
}

func intAllele(value int, dominant bool, p float64) *Allele[int] {
	a, err := NewAllele[int]("count", value, dominant, p, sumRule)
	if err != nil {
		panic(err)
	}
	return a
}

func floatAllele(value float64, dominant bool, p float64) *Allele[float64] {
	a, err := NewAllele[float64]("size", value, dominant, p, meanRule)
	if err != nil {
		panic(err)
	}
	return a
}

func labelAllele(value string, dominant bool, p float64) *Allele[string] {
	a, err := NewAllele[string]("label", value, dominant, p, labelRule)
	if err != nil {
		panic(err)
	}
	return a
}

type traitSet struct {
	Size  float64
	Count int
	Label string
}

func (t *traitSet) Setup(values []any) error {
	if err := CheckLoci(values, 3); err != nil {
		return err
	}
	size, ok := values[0].(float64)
	if !ok {
		return fmt.Errorf("size: unexpected %T", values[0])
	}
	count, ok := values[1].(int)
	if !ok {
		return fmt.Errorf("count: unexpected %T", values[1])
	}
	label, ok := values[2].(string)
	if !ok {
		return fmt.Errorf("label: unexpected %T", values[2])
	}
	t.Size, t.Count, t.Label = size, count, label
	return nil
}

func threeLoci(p float64) []AlleleHandle {
	return []AlleleHandle{
		floatAllele(1.5, true, p),
		intAllele(3, false, p),
		labelAllele("red", true, p),
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
