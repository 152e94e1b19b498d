// Package mendel is the public surface for embedding the breeder and for
// writing allele kinds and genotypes outside this module.
package mendel

import (
	"mendel/internal/genetic"
	"mendel/internal/model"
	"mendel/internal/traits"
)

// Core genetics.
type (
	Rand             = genetic.Rand
	Rule[T any]      = genetic.Rule[T]
	RuleFuncs[T any] = genetic.RuleFuncs[T]
	Copier[T any]    = genetic.Copier[T]
	Allele[T any]    = genetic.Allele[T]
	AlleleHandle     = genetic.AlleleHandle
	Genome           = genetic.Genome
	Genotype         = genetic.Genotype
	GenomeFactory    = genetic.Factory
	LocusError       = genetic.LocusError
)

// Persistence records.
type (
	AlleleRecord  = model.AlleleRecord
	LocusRecord   = model.LocusRecord
	SpeciesRecord = model.SpeciesRecord
	GenomeRecord  = model.GenomeRecord
	LineageRecord = model.LineageRecord
)

// Trait library.
type (
	Registry   = traits.Registry
	KindSpec   = traits.Spec
	BuildFunc  = traits.BuildFunc
	RecordFunc = traits.RecordFunc
	Profile    = traits.Profile
	Trait      = traits.Trait
	RGB        = traits.RGB
)

const (
	KindScalar  = traits.KindScalar
	KindInteger = traits.KindInteger
	KindFlag    = traits.KindFlag
	KindChoice  = traits.KindChoice
	KindColor   = traits.KindColor
)

var (
	ErrLocusCountMismatch = genetic.ErrLocusCountMismatch
	ErrTypeMismatch       = genetic.ErrTypeMismatch
	ErrUnimplementedRule  = genetic.ErrUnimplementedRule
	ErrInvalidProbability = genetic.ErrInvalidProbability
	ErrNilAllele          = genetic.ErrNilAllele
	ErrKindNotFound       = traits.ErrKindNotFound
	ErrKindExists         = traits.ErrKindExists
	ErrInvalidValue       = traits.ErrInvalidValue
)

func NewAllele[T any](kind string, value T, dominant bool, mutationProbability float64, rule Rule[T]) (*Allele[T], error) {
	return genetic.NewAllele(kind, value, dominant, mutationProbability, rule)
}

func NewFounder(genes []AlleleHandle) (*Genome, error) {
	return genetic.NewFounder(genes)
}

func NewGenome(paternal, maternal []AlleleHandle) (*Genome, error) {
	return genetic.NewGenome(paternal, maternal)
}

func Cross(father, mother *Genome, rng Rand) (*Genome, error) {
	return genetic.Cross(father, mother, rng)
}

// DecodeAs resolves g into a freshly allocated genotype of type T.
func DecodeAs[T any, PT genetic.GenotypePtr[T]](g *Genome) (T, error) {
	return genetic.DecodeAs[T, PT](g)
}

func CheckLoci(values []any, want int) error {
	return genetic.CheckLoci(values, want)
}

func NewRegistry() *Registry {
	return traits.NewRegistry()
}

// DefaultRegistry holds the built-in kinds: scalar, integer, flag, choice
// and color.
func DefaultRegistry() *Registry {
	return traits.DefaultRegistry()
}
