package factory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mendel/internal/genetic"
	"mendel/internal/model"
	"mendel/internal/storage"
	"mendel/internal/traits"
)

var ErrInvalidSpecies = errors.New("invalid species")

// Adapter converts between stored records and live genomes.
type Adapter struct {
	registry *traits.Registry
	founder  genetic.Factory
}

func New(registry *traits.Registry) *Adapter {
	if registry == nil {
		registry = traits.DefaultRegistry()
	}
	return &Adapter{registry: registry, founder: genetic.FounderFactory}
}

func (a *Adapter) Registry() *traits.Registry {
	return a.registry
}

// ValidateSpecies checks names and that every founder allele builds.
func (a *Adapter) ValidateSpecies(species model.SpeciesRecord) error {
	if strings.TrimSpace(species.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpecies)
	}
	seen := make(map[string]struct{}, len(species.Loci))
	for i, locus := range species.Loci {
		if strings.TrimSpace(locus.Name) == "" {
			return fmt.Errorf("%w: %s locus %d has no name", ErrInvalidSpecies, species.Name, i)
		}
		if _, dup := seen[locus.Name]; dup {
			return fmt.Errorf("%w: %s locus %q is duplicated", ErrInvalidSpecies, species.Name, locus.Name)
		}
		seen[locus.Name] = struct{}{}
	}
	if _, err := a.registry.BuildAll(species.Alleles()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSpecies, species.Name, err)
	}
	return nil
}

// Founder builds a homozygous genome from the species' founder alleles.
func (a *Adapter) Founder(species model.SpeciesRecord) (*genetic.Genome, error) {
	return a.FounderFrom(species.Alleles())
}

// FounderFrom builds a homozygous genome from a flat allele list given in
// locus order.
func (a *Adapter) FounderFrom(alleles []model.AlleleRecord) (*genetic.Genome, error) {
	genes, err := a.registry.BuildAll(alleles)
	if err != nil {
		return nil, err
	}
	return a.founder(genes)
}

// Assemble rebuilds a stored genome. Both sides are built independently and
// handed to the genome without cloning.
func (a *Adapter) Assemble(rec model.GenomeRecord) (*genetic.Genome, error) {
	paternal, err := a.registry.BuildAll(rec.Paternal)
	if err != nil {
		return nil, fmt.Errorf("genome %s paternal: %w", rec.ID, err)
	}
	maternal, err := a.registry.BuildAll(rec.Maternal)
	if err != nil {
		return nil, fmt.Errorf("genome %s maternal: %w", rec.ID, err)
	}
	g, err := genetic.NewGenome(paternal, maternal)
	if err != nil {
		return nil, fmt.Errorf("genome %s: %w", rec.ID, err)
	}
	return g, nil
}

func (a *Adapter) Snapshot(id, species string, g *genetic.Genome, createdAt time.Time) (model.GenomeRecord, error) {
	if g == nil {
		return model.GenomeRecord{}, genetic.ErrNilGenome
	}
	paternal, err := a.registry.RecordAll(g.Paternal())
	if err != nil {
		return model.GenomeRecord{}, fmt.Errorf("genome %s paternal: %w", id, err)
	}
	maternal, err := a.registry.RecordAll(g.Maternal())
	if err != nil {
		return model.GenomeRecord{}, fmt.Errorf("genome %s maternal: %w", id, err)
	}
	return model.GenomeRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:        id,
		Species:   species,
		Paternal:  paternal,
		Maternal:  maternal,
		CreatedAt: createdAt.UTC(),
	}, nil
}
