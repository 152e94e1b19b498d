package traits

import (
	"fmt"
	"strings"

	"mendel/internal/genetic"
)

type Trait struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Profile is a phenotype keyed by locus name, for species whose shape is
// only known at runtime.
type Profile struct {
	names  []string
	traits []Trait
}

var _ genetic.Genotype = (*Profile)(nil)

func NewProfile(names []string) *Profile {
	return &Profile{names: append([]string(nil), names...)}
}

func (p *Profile) Setup(values []any) error {
	if err := genetic.CheckLoci(values, len(p.names)); err != nil {
		return err
	}
	p.traits = make([]Trait, len(values))
	for i, v := range values {
		if c, ok := v.(RGB); ok {
			v = c.String()
		}
		p.traits[i] = Trait{Name: p.names[i], Value: v}
	}
	return nil
}

func (p *Profile) Traits() []Trait {
	return append([]Trait(nil), p.traits...)
}

func (p *Profile) Get(name string) (any, bool) {
	for _, t := range p.traits {
		if t.Name == name {
			return t.Value, true
		}
	}
	return nil, false
}

func (p *Profile) String() string {
	parts := make([]string, len(p.traits))
	for i, t := range p.traits {
		parts[i] = fmt.Sprintf("%s=%v", t.Name, t.Value)
	}
	return strings.Join(parts, " ")
}
