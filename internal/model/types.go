package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// AlleleRecord is the stored form of one allele. Value is whatever the
// kind's builder understands (number, bool, string, hex color).
type AlleleRecord struct {
	Kind                string         `json:"kind" yaml:"kind"`
	Value               any            `json:"value" yaml:"value"`
	Dominant            bool           `json:"dominant" yaml:"dominant"`
	MutationProbability float64        `json:"mutation_probability" yaml:"mutation_probability"`
	Params              map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LocusRecord names a locus of a species and carries its founder allele.
type LocusRecord struct {
	Name         string `json:"name" yaml:"name"`
	AlleleRecord `yaml:",inline"`
}

type SpeciesRecord struct {
	VersionedRecord `yaml:"-"`
	Name            string        `json:"name" yaml:"name"`
	Description     string        `json:"description,omitempty" yaml:"description,omitempty"`
	Loci            []LocusRecord `json:"loci" yaml:"loci"`
}

type GenomeRecord struct {
	VersionedRecord
	ID        string         `json:"id"`
	Species   string         `json:"species"`
	Paternal  []AlleleRecord `json:"paternal"`
	Maternal  []AlleleRecord `json:"maternal"`
	CreatedAt time.Time      `json:"created_at"`
}

type LineageRecord struct {
	VersionedRecord
	ChildID   string    `json:"child_id"`
	FatherID  string    `json:"father_id"`
	MotherID  string    `json:"mother_id"`
	Species   string    `json:"species"`
	Mutations int       `json:"mutations"`
	CreatedAt time.Time `json:"created_at"`
}

func (s SpeciesRecord) LocusNames() []string {
	names := make([]string, len(s.Loci))
	for i, locus := range s.Loci {
		names[i] = locus.Name
	}
	return names
}

func (s SpeciesRecord) Alleles() []AlleleRecord {
	out := make([]AlleleRecord, len(s.Loci))
	for i, locus := range s.Loci {
		out[i] = locus.AlleleRecord
	}
	return out
}

// Clone deep-copies the record, including nested params.
func (a AlleleRecord) Clone() AlleleRecord {
	a.Value = cloneValue(a.Value)
	if a.Params != nil {
		params := make(map[string]any, len(a.Params))
		for k, v := range a.Params {
			params[k] = cloneValue(v)
		}
		a.Params = params
	}
	return a
}

func (s SpeciesRecord) Clone() SpeciesRecord {
	if s.Loci == nil {
		return s
	}
	loci := make([]LocusRecord, len(s.Loci))
	for i, locus := range s.Loci {
		loci[i] = LocusRecord{Name: locus.Name, AlleleRecord: locus.AlleleRecord.Clone()}
	}
	s.Loci = loci
	return s
}

func (g GenomeRecord) Clone() GenomeRecord {
	g.Paternal = cloneAlleles(g.Paternal)
	g.Maternal = cloneAlleles(g.Maternal)
	return g
}

func cloneAlleles(in []AlleleRecord) []AlleleRecord {
	if in == nil {
		return nil
	}
	out := make([]AlleleRecord, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
