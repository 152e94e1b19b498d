package traits

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"mendel/internal/genetic"
	"mendel/internal/model"
)

var (
	ErrKindExists   = errors.New("allele kind already registered")
	ErrKindNotFound = errors.New("allele kind not found")
)

// BuildFunc turns a stored allele into a live handle.
type BuildFunc func(rec model.AlleleRecord) (genetic.AlleleHandle, error)

// RecordFunc is the inverse of BuildFunc.
type RecordFunc func(h genetic.AlleleHandle) (model.AlleleRecord, error)

type Spec struct {
	Kind   string
	Build  BuildFunc
	Record RecordFunc
}

// Registry maps allele kind names to their builders. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Spec
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Spec)}
}

// DefaultRegistry returns a registry holding the built-in kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Spec{Kind: KindScalar, Build: buildScalar, Record: recordScalar})
	r.MustRegister(Spec{Kind: KindInteger, Build: buildInteger, Record: recordInteger})
	r.MustRegister(Spec{Kind: KindFlag, Build: buildFlag, Record: recordFlag})
	r.MustRegister(Spec{Kind: KindChoice, Build: buildChoice, Record: recordChoice})
	r.MustRegister(Spec{Kind: KindColor, Build: buildColor, Record: recordColor})
	return r
}

// Register adds a kind under its normalized name.
func (r *Registry) Register(spec Spec) error {
	spec.Kind = NormalizeKind(spec.Kind)
	if spec.Kind == "" {
		return errors.New("allele kind is required")
	}
	if spec.Build == nil || spec.Record == nil {
		return fmt.Errorf("allele kind %s: build and record funcs are required", spec.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[spec.Kind]; exists {
		return fmt.Errorf("%w: %s", ErrKindExists, spec.Kind)
	}
	r.kinds[spec.Kind] = spec
	return nil
}

func (r *Registry) MustRegister(spec Spec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

func (r *Registry) lookup(kind string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.kinds[NormalizeKind(kind)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrKindNotFound, kind)
	}
	return spec, nil
}

func (r *Registry) Build(rec model.AlleleRecord) (genetic.AlleleHandle, error) {
	spec, err := r.lookup(rec.Kind)
	if err != nil {
		return nil, err
	}
	return spec.Build(rec)
}

func (r *Registry) Record(h genetic.AlleleHandle) (model.AlleleRecord, error) {
	if h == nil {
		return model.AlleleRecord{}, genetic.ErrNilAllele
	}
	spec, err := r.lookup(h.Kind())
	if err != nil {
		return model.AlleleRecord{}, err
	}
	return spec.Record(h)
}

// BuildAll builds handles in record order; the error names the failing locus.
func (r *Registry) BuildAll(records []model.AlleleRecord) ([]genetic.AlleleHandle, error) {
	out := make([]genetic.AlleleHandle, len(records))
	for i, rec := range records {
		h, err := r.Build(rec)
		if err != nil {
			return nil, &genetic.LocusError{Locus: i, Kind: rec.Kind, Err: err}
		}
		out[i] = h
	}
	return out, nil
}

func (r *Registry) RecordAll(handles []genetic.AlleleHandle) ([]model.AlleleRecord, error) {
	out := make([]model.AlleleRecord, len(handles))
	for i, h := range handles {
		rec, err := r.Record(h)
		if err != nil {
			return nil, &genetic.LocusError{Locus: i, Err: err}
		}
		out[i] = rec
	}
	return out, nil
}

func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.kinds))
	for kind := range r.kinds {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
