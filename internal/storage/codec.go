package storage

import (
	"encoding/json"
	"errors"
	"sort"

	"mendel/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeGenome(g model.GenomeRecord) ([]byte, error) {
	return json.Marshal(g)
}

func DecodeGenome(data []byte) (model.GenomeRecord, error) {
	var genome model.GenomeRecord
	if err := json.Unmarshal(data, &genome); err != nil {
		return model.GenomeRecord{}, err
	}
	if err := checkVersion(genome.VersionedRecord); err != nil {
		return model.GenomeRecord{}, err
	}
	return genome, nil
}

func EncodeSpecies(s model.SpeciesRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSpecies(data []byte) (model.SpeciesRecord, error) {
	var species model.SpeciesRecord
	if err := json.Unmarshal(data, &species); err != nil {
		return model.SpeciesRecord{}, err
	}
	if err := checkVersion(species.VersionedRecord); err != nil {
		return model.SpeciesRecord{}, err
	}
	return species, nil
}

func EncodeLineage(l model.LineageRecord) ([]byte, error) {
	return json.Marshal(l)
}

func DecodeLineage(data []byte) (model.LineageRecord, error) {
	var lineage model.LineageRecord
	if err := json.Unmarshal(data, &lineage); err != nil {
		return model.LineageRecord{}, err
	}
	if err := checkVersion(lineage.VersionedRecord); err != nil {
		return model.LineageRecord{}, err
	}
	return lineage, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func sortGenomes(genomes []model.GenomeRecord) {
	sort.Slice(genomes, func(i, j int) bool {
		if !genomes[i].CreatedAt.Equal(genomes[j].CreatedAt) {
			return genomes[i].CreatedAt.Before(genomes[j].CreatedAt)
		}
		return genomes[i].ID < genomes[j].ID
	})
}

func sortSpecies(species []model.SpeciesRecord) {
	sort.Slice(species, func(i, j int) bool {
		return species[i].Name < species[j].Name
	})
}
