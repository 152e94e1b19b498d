package genetic

import (
	"errors"
	"fmt"
)

var (
	ErrLocusCountMismatch = errors.New("locus count mismatch")
	ErrTypeMismatch       = errors.New("allele type mismatch at fusion")
	ErrUnimplementedRule  = errors.New("allele rule not implemented")
	ErrInvalidProbability = errors.New("mutation probability must be within [0, 1]")
	ErrNilAllele          = errors.New("allele handle is nil")
	ErrNilGenome          = errors.New("genome is nil")
	ErrRandomSource       = errors.New("random source is required")
)

// LocusError reports a failure at one locus of a genome. Err is one of the
// package sentinels, possibly wrapped with more detail.
type LocusError struct {
	Locus int
	Kind  string
	Err   error
}

func (e *LocusError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("locus %d: %v", e.Locus, e.Err)
	}
	return fmt.Sprintf("locus %d (%s): %v", e.Locus, e.Kind, e.Err)
}

func (e *LocusError) Unwrap() error {
	return e.Err
}

func locusError(locus int, handle AlleleHandle, err error) error {
	var kind string
	if handle != nil {
		kind = handle.Kind()
	}
	return &LocusError{Locus: locus, Kind: kind, Err: err}
}

// CheckLoci is meant for Genotype.Setup implementations: it fails with
// ErrLocusCountMismatch unless exactly want values were supplied.
func CheckLoci(values []any, want int) error {
	if len(values) != want {
		return fmt.Errorf("%w: got %d values, want %d", ErrLocusCountMismatch, len(values), want)
	}
	return nil
}
