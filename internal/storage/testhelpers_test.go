package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mendel/internal/model"
)

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

func decodeGenomeFixture(t *testing.T, name string) model.GenomeRecord {
	t.Helper()
	data, err := os.ReadFile(fixturePath(name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	genome, err := DecodeGenome(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return genome
}

func sampleGenome(id, species string, createdAt time.Time) model.GenomeRecord {
	return model.GenomeRecord{
		VersionedRecord: CurrentVersion(),
		ID:              id,
		Species:         species,
		Paternal:        []model.AlleleRecord{{Kind: "flag", Value: true, Dominant: true}},
		Maternal:        []model.AlleleRecord{{Kind: "flag", Value: false}},
		CreatedAt:       createdAt,
	}
}

func sampleSpecies(name string) model.SpeciesRecord {
	return model.SpeciesRecord{
		VersionedRecord: CurrentVersion(),
		Name:            name,
		Loci: []model.LocusRecord{
			{Name: "tall", AlleleRecord: model.AlleleRecord{Kind: "flag", Value: true, Dominant: true}},
		},
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := t.Context()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.SaveSpecies(ctx, sampleSpecies("pea")); err != nil {
		t.Fatalf("save species: %v", err)
	}
	if err := store.SaveSpecies(ctx, sampleSpecies("bean")); err != nil {
		t.Fatalf("save species: %v", err)
	}
	species, ok, err := store.GetSpecies(ctx, "pea")
	if err != nil {
		t.Fatalf("get species: %v", err)
	}
	if !ok || species.Name != "pea" || len(species.Loci) != 1 || species.Loci[0].Name != "tall" {
		t.Fatalf("unexpected species: ok=%v %+v", ok, species)
	}
	allSpecies, err := store.ListSpecies(ctx)
	if err != nil {
		t.Fatalf("list species: %v", err)
	}
	if len(allSpecies) != 2 || allSpecies[0].Name != "bean" || allSpecies[1].Name != "pea" {
		t.Fatalf("unexpected species list: %+v", allSpecies)
	}

	for i, id := range []string{"g3", "g1", "g2"} {
		if err := store.SaveGenome(ctx, sampleGenome(id, "pea", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save genome %s: %v", id, err)
		}
	}
	if err := store.SaveGenome(ctx, sampleGenome("b1", "bean", base)); err != nil {
		t.Fatalf("save genome: %v", err)
	}

	genome, ok, err := store.GetGenome(ctx, "g1")
	if err != nil {
		t.Fatalf("get genome: %v", err)
	}
	if !ok || genome.Species != "pea" || len(genome.Paternal) != 1 || genome.Maternal[0].Value != false {
		t.Fatalf("unexpected genome: ok=%v %+v", ok, genome)
	}
	if !genome.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected created_at: %v", genome.CreatedAt)
	}

	peas, err := store.ListGenomes(ctx, "pea")
	if err != nil {
		t.Fatalf("list genomes: %v", err)
	}
	if len(peas) != 3 || peas[0].ID != "g3" || peas[1].ID != "g1" || peas[2].ID != "g2" {
		t.Fatalf("unexpected genome order: %+v", peas)
	}
	all, err := store.ListGenomes(ctx, "")
	if err != nil {
		t.Fatalf("list all genomes: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 genomes, got %d", len(all))
	}

	if err := store.DeleteGenome(ctx, "g2"); err != nil {
		t.Fatalf("delete genome: %v", err)
	}
	if _, ok, err := store.GetGenome(ctx, "g2"); err != nil || ok {
		t.Fatalf("expected deleted genome, ok=%v err=%v", ok, err)
	}

	lineage := model.LineageRecord{
		VersionedRecord: CurrentVersion(),
		ChildID:         "g2",
		FatherID:        "g1",
		MotherID:        "g3",
		Species:         "pea",
		Mutations:       2,
		CreatedAt:       base,
	}
	if err := store.SaveLineage(ctx, lineage); err != nil {
		t.Fatalf("save lineage: %v", err)
	}
	loaded, ok, err := store.GetLineage(ctx, "g2")
	if err != nil {
		t.Fatalf("get lineage: %v", err)
	}
	if !ok || loaded.FatherID != "g1" || loaded.MotherID != "g3" || loaded.Mutations != 2 {
		t.Fatalf("unexpected lineage: ok=%v %+v", ok, loaded)
	}

	if _, ok, err := store.GetLineage(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing lineage, ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetSpecies(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing species, ok=%v err=%v", ok, err)
	}
}
