package storage

import (
	"context"

	"mendel/internal/model"
)

// Store defines persistence for species definitions, genomes and lineage.
type Store interface {
	Init(ctx context.Context) error
	SaveSpecies(ctx context.Context, species model.SpeciesRecord) error
	GetSpecies(ctx context.Context, name string) (model.SpeciesRecord, bool, error)
	ListSpecies(ctx context.Context) ([]model.SpeciesRecord, error)
	SaveGenome(ctx context.Context, genome model.GenomeRecord) error
	GetGenome(ctx context.Context, id string) (model.GenomeRecord, bool, error)
	// ListGenomes returns genomes of one species, or all when species is
	// empty, ordered by creation time then ID.
	ListGenomes(ctx context.Context, species string) ([]model.GenomeRecord, error)
	DeleteGenome(ctx context.Context, id string) error
	SaveLineage(ctx context.Context, lineage model.LineageRecord) error
	GetLineage(ctx context.Context, childID string) (model.LineageRecord, bool, error)
}
