package storage

import (
	"context"
	"errors"
	"sync"

	"mendel/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	species     map[string]model.SpeciesRecord
	genomes     map[string]model.GenomeRecord
	lineage     map[string]model.LineageRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.species = make(map[string]model.SpeciesRecord)
	s.genomes = make(map[string]model.GenomeRecord)
	s.lineage = make(map[string]model.LineageRecord)
	return nil
}

func (s *MemoryStore) SaveSpecies(_ context.Context, species model.SpeciesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.species[species.Name] = species.Clone()
	return nil
}

func (s *MemoryStore) GetSpecies(_ context.Context, name string) (model.SpeciesRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	species, ok := s.species[name]
	return species.Clone(), ok, nil
}

func (s *MemoryStore) ListSpecies(_ context.Context) ([]model.SpeciesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SpeciesRecord, 0, len(s.species))
	for _, species := range s.species {
		out = append(out, species.Clone())
	}
	sortSpecies(out)
	return out, nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, genome model.GenomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.genomes[genome.ID] = genome.Clone()
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, id string) (model.GenomeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	genome, ok := s.genomes[id]
	return genome.Clone(), ok, nil
}

func (s *MemoryStore) ListGenomes(_ context.Context, species string) ([]model.GenomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.GenomeRecord, 0, len(s.genomes))
	for _, genome := range s.genomes {
		if species != "" && genome.Species != species {
			continue
		}
		out = append(out, genome.Clone())
	}
	sortGenomes(out)
	return out, nil
}

func (s *MemoryStore) DeleteGenome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.genomes, id)
	return nil
}

func (s *MemoryStore) SaveLineage(_ context.Context, lineage model.LineageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.lineage[lineage.ChildID] = lineage
	return nil
}

func (s *MemoryStore) GetLineage(_ context.Context, childID string) (model.LineageRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lineage, ok := s.lineage[childID]
	return lineage, ok, nil
}
