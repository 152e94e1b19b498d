package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Report struct {
	Species string         `json:"species"`
	Genomes int            `json:"genomes"`
	Traits  []TraitSummary `json:"traits"`
}

// WriteArtifacts writes <species>_phenotypes.csv and <species>_summary.json
// into dir and returns dir.
func WriteArtifacts(dir string, report Report, rows []Row) (string, error) {
	if report.Species == "" {
		return "", fmt.Errorf("species is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := WritePhenotypeTable(filepath.Join(dir, report.Species+"_phenotypes.csv"), rows); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, report.Species+"_summary.json"), report); err != nil {
		return "", err
	}
	return dir, nil
}

func WritePhenotypeTable(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"genome_id"}
	if len(rows) > 0 {
		for _, trait := range rows[0].Traits {
			header = append(header, trait.Name)
		}
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, 0, len(row.Traits)+1)
		record = append(record, row.GenomeID)
		for _, trait := range row.Traits {
			record = append(record, fmt.Sprint(trait.Value))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadPhenotypeTable returns the header and rows as raw strings.
func ReadPhenotypeTable(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("phenotype table %s is empty", path)
		}
		return nil, nil, err
	}
	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}
	return header, records, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
