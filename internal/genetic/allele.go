// Package genetic implements diploid Mendelian inheritance: typed alleles with
// a dominance flag and a mutation probability, genomes holding a paternal and
// a maternal allele per locus, gamete production and phenotype decoding.
package genetic

import "fmt"

// Rand is the random source threaded through replication and gamete
// production. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Rule is the trait-specific half of an allele kind. Mutate returns the
// perturbed value; Fuse combines two competing values when dominance does
// not single one out.
type Rule[T any] interface {
	Mutate(value T, rng Rand) (T, error)
	Fuse(paternal, maternal T) (T, error)
}

// Copier is implemented by rules whose values hold references. Clone and
// Replicate copy the value through it.
type Copier[T any] interface {
	Copy(value T) T
}

// RuleFuncs adapts plain functions to Rule. A nil func reports
// ErrUnimplementedRule when it is needed; a nil CopyFunc copies by assignment.
type RuleFuncs[T any] struct {
	MutateFunc func(value T, rng Rand) (T, error)
	FuseFunc   func(paternal, maternal T) (T, error)
	CopyFunc   func(value T) T
}

func (r RuleFuncs[T]) Copy(value T) T {
	if r.CopyFunc == nil {
		return value
	}
	return r.CopyFunc(value)
}

func (r RuleFuncs[T]) Mutate(value T, rng Rand) (T, error) {
	if r.MutateFunc == nil {
		var zero T
		return zero, fmt.Errorf("%w: mutate", ErrUnimplementedRule)
	}
	return r.MutateFunc(value, rng)
}

func (r RuleFuncs[T]) Fuse(paternal, maternal T) (T, error) {
	if r.FuseFunc == nil {
		var zero T
		return zero, fmt.Errorf("%w: fuse", ErrUnimplementedRule)
	}
	return r.FuseFunc(paternal, maternal)
}

// AlleleHandle is the type-erased view a Genome stores at each locus.
type AlleleHandle interface {
	Kind() string
	IsDominant() bool
	MutationProbability() float64
	// Value returns the decoded value.
	Value() any
	Clone() AlleleHandle
	Replicate(rng Rand) (AlleleHandle, error)
	FuseDecode(other AlleleHandle) (any, error)
}

// Allele is one typed unit of heredity. Values are only changed through
// Encode or Mutate, and Mutate is only applied to fresh clones by Replicate.
// A reference-typed T needs a rule implementing Copier.
type Allele[T any] struct {
	kind                string
	value               T
	dominant            bool
	mutationProbability float64
	rule                Rule[T]
}

var _ AlleleHandle = (*Allele[int])(nil)

func NewAllele[T any](kind string, value T, dominant bool, mutationProbability float64, rule Rule[T]) (*Allele[T], error) {
	if kind == "" {
		return nil, fmt.Errorf("allele kind is required")
	}
	// NaN fails both comparisons, so test the accepted range.
	if !(mutationProbability >= 0 && mutationProbability <= 1) {
		return nil, fmt.Errorf("%w: %s got %v", ErrInvalidProbability, kind, mutationProbability)
	}
	a := &Allele[T]{
		kind:                kind,
		dominant:            dominant,
		mutationProbability: mutationProbability,
		rule:                rule,
	}
	a.Encode(value)
	return a, nil
}

func (a *Allele[T]) Kind() string {
	return a.kind
}

func (a *Allele[T]) Encode(value T) {
	a.value = value
}

func (a *Allele[T]) Decode() T {
	return a.value
}

func (a *Allele[T]) Value() any {
	return a.value
}

func (a *Allele[T]) IsDominant() bool {
	return a.dominant
}

func (a *Allele[T]) MutationProbability() float64 {
	return a.mutationProbability
}

func (a *Allele[T]) Rule() Rule[T] {
	return a.rule
}

// Mutate rewrites the stored value with the kind's mutation rule.
func (a *Allele[T]) Mutate(rng Rand) error {
	if a.rule == nil {
		return fmt.Errorf("%w: %s has no mutation rule", ErrUnimplementedRule, a.kind)
	}
	if rng == nil {
		return ErrRandomSource
	}
	next, err := a.rule.Mutate(a.value, rng)
	if err != nil {
		return fmt.Errorf("mutate %s: %w", a.kind, err)
	}
	a.Encode(next)
	return nil
}

func (a *Allele[T]) Clone() AlleleHandle {
	return a.clone()
}

func (a *Allele[T]) clone() *Allele[T] {
	out := *a
	if c, ok := a.rule.(Copier[T]); ok {
		out.value = c.Copy(a.value)
	}
	return &out
}

// Replicate clones the allele and, with the allele's own mutation
// probability, mutates the clone. This is the only place mutation fires.
func (a *Allele[T]) Replicate(rng Rand) (AlleleHandle, error) {
	if rng == nil {
		return nil, ErrRandomSource
	}
	out := a.clone()
	if rng.Float64() < a.mutationProbability {
		if err := out.Mutate(rng); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FuseDecode combines this allele's value with other's. other must be an
// allele of the same concrete type and kind.
func (a *Allele[T]) FuseDecode(other AlleleHandle) (any, error) {
	peer, ok := other.(*Allele[T])
	if !ok || peer == nil {
		return nil, fmt.Errorf("%w: %s(%T) with %T", ErrTypeMismatch, a.kind, a, other)
	}
	if peer.kind != a.kind {
		return nil, fmt.Errorf("%w: %s with %s", ErrTypeMismatch, a.kind, peer.kind)
	}
	if a.rule == nil {
		return nil, fmt.Errorf("%w: %s has no fusion rule", ErrUnimplementedRule, a.kind)
	}
	fused, err := a.rule.Fuse(a.value, peer.value)
	if err != nil {
		return nil, fmt.Errorf("fuse %s: %w", a.kind, err)
	}
	return fused, nil
}

func (a *Allele[T]) String() string {
	mark := "r"
	if a.dominant {
		mark = "D"
	}
	return fmt.Sprintf("%s[%s]=%v", a.kind, mark, a.value)
}
