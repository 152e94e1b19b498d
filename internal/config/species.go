package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mendel/internal/model"
)

// ParseSpecies reads one species definition. Unknown fields are rejected so
// a misspelled key does not silently fall back to a zero value.
func ParseSpecies(data []byte) (model.SpeciesRecord, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var species model.SpeciesRecord
	if err := dec.Decode(&species); err != nil {
		if errors.Is(err, io.EOF) {
			return model.SpeciesRecord{}, errors.New("species definition is empty")
		}
		return model.SpeciesRecord{}, fmt.Errorf("parse species: %w", err)
	}
	return species, nil
}

func LoadSpecies(path string) (model.SpeciesRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SpeciesRecord{}, fmt.Errorf("read species %s: %w", path, err)
	}
	species, err := ParseSpecies(data)
	if err != nil {
		return model.SpeciesRecord{}, fmt.Errorf("%s: %w", path, err)
	}
	return species, nil
}
