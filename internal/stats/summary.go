package stats

import (
	"fmt"
	"math"
	"sort"

	"mendel/internal/traits"
)

// Row is one decoded individual.
type Row struct {
	GenomeID string
	Traits   []traits.Trait
}

// TraitSummary describes one locus across a population. Numeric traits get
// mean and range; everything else gets value counts.
type TraitSummary struct {
	Name    string         `json:"name"`
	Numeric bool           `json:"numeric"`
	Count   int            `json:"count"`
	Mean    float64        `json:"mean"`
	Min     float64        `json:"min"`
	Max     float64        `json:"max"`
	Values  map[string]int `json:"values,omitempty"`
}

// Summarize aggregates rows in locus order of the first row. A trait mixing
// numeric and non-numeric values is reported by value counts.
func Summarize(rows []Row) []TraitSummary {
	if len(rows) == 0 {
		return nil
	}
	out := make([]TraitSummary, len(rows[0].Traits))
	for i, trait := range rows[0].Traits {
		out[i] = summarizeTrait(trait.Name, i, rows)
	}
	return out
}

func summarizeTrait(name string, locus int, rows []Row) TraitSummary {
	summary := TraitSummary{Name: name, Numeric: true, Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	values := make(map[string]int)
	for _, row := range rows {
		if locus >= len(row.Traits) {
			continue
		}
		v := row.Traits[locus].Value
		summary.Count++
		values[fmt.Sprint(v)]++
		f, ok := numeric(v)
		if !ok {
			summary.Numeric = false
			continue
		}
		sum += f
		summary.Min = math.Min(summary.Min, f)
		summary.Max = math.Max(summary.Max, f)
	}
	if summary.Numeric && summary.Count > 0 {
		summary.Mean = sum / float64(summary.Count)
		return summary
	}
	summary.Numeric = false
	summary.Min, summary.Max = 0, 0
	summary.Values = values
	return summary
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// SortedValues lists a categorical summary's values, most frequent first.
func (s TraitSummary) SortedValues() []string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.Values[keys[i]] != s.Values[keys[j]] {
			return s.Values[keys[i]] > s.Values[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
