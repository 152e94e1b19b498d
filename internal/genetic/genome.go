package genetic

import "fmt"

// Genome is a diploid container: one paternal and one maternal allele per
// locus. It is immutable after construction.
type Genome struct {
	paternal []AlleleHandle
	maternal []AlleleHandle
}

// NewFounder builds a homozygous genome: both sides are independent clones
// of genes.
func NewFounder(genes []AlleleHandle) (*Genome, error) {
	if err := checkHandles(genes); err != nil {
		return nil, err
	}
	g := &Genome{
		paternal: make([]AlleleHandle, len(genes)),
		maternal: make([]AlleleHandle, len(genes)),
	}
	for i, gene := range genes {
		g.paternal[i] = gene.Clone()
		g.maternal[i] = gene.Clone()
	}
	return g, nil
}

// NewGenome takes ownership of two independently sourced allele sets. No
// cloning is done, so callers must not keep mutating the slices.
func NewGenome(paternal, maternal []AlleleHandle) (*Genome, error) {
	if len(paternal) != len(maternal) {
		return nil, fmt.Errorf("%w: paternal has %d loci, maternal has %d", ErrLocusCountMismatch, len(paternal), len(maternal))
	}
	if err := checkHandles(paternal); err != nil {
		return nil, err
	}
	if err := checkHandles(maternal); err != nil {
		return nil, err
	}
	return &Genome{paternal: paternal, maternal: maternal}, nil
}

// Cross models sexual reproduction: the child's paternal side is a gamete
// of father and its maternal side a gamete of mother.
func Cross(father, mother *Genome, rng Rand) (*Genome, error) {
	if father == nil || mother == nil {
		return nil, ErrNilGenome
	}
	if father.Len() != mother.Len() {
		return nil, fmt.Errorf("%w: father has %d loci, mother has %d", ErrLocusCountMismatch, father.Len(), mother.Len())
	}
	paternal, err := father.Gamete(rng)
	if err != nil {
		return nil, fmt.Errorf("father gamete: %w", err)
	}
	maternal, err := mother.Gamete(rng)
	if err != nil {
		return nil, fmt.Errorf("mother gamete: %w", err)
	}
	return NewGenome(paternal, maternal)
}

func (g *Genome) Len() int {
	if g == nil {
		return 0
	}
	return len(g.paternal)
}

// Locus returns the stored handles at i. They are shared with the genome
// and must be treated as read-only.
func (g *Genome) Locus(i int) (paternal, maternal AlleleHandle) {
	return g.paternal[i], g.maternal[i]
}

// Paternal returns deep clones of the paternal alleles.
func (g *Genome) Paternal() []AlleleHandle {
	return cloneHandles(g.paternal)
}

// Maternal returns deep clones of the maternal alleles.
func (g *Genome) Maternal() []AlleleHandle {
	return cloneHandles(g.maternal)
}

// Gamete produces one haploid set. Each locus independently takes the
// paternal allele when the draw is below 0.5 and the maternal one otherwise;
// the chosen allele is replicated, which is where mutation may happen.
func (g *Genome) Gamete(rng Rand) ([]AlleleHandle, error) {
	if rng == nil {
		return nil, ErrRandomSource
	}
	gamete := make([]AlleleHandle, len(g.paternal))
	for i := range g.paternal {
		source := g.maternal[i]
		if rng.Float64() < 0.5 {
			source = g.paternal[i]
		}
		replica, err := source.Replicate(rng)
		if err != nil {
			return nil, locusError(i, source, err)
		}
		gamete[i] = replica
	}
	return gamete, nil
}

// Resolve applies per-locus dominance resolution and returns the decoded
// values in locus order.
func (g *Genome) Resolve() ([]any, error) {
	values := make([]any, len(g.paternal))
	for i := range g.paternal {
		value, err := resolveLocus(g.paternal[i], g.maternal[i])
		if err != nil {
			return nil, locusError(i, g.paternal[i], err)
		}
		values[i] = value
	}
	return values, nil
}

func resolveLocus(p, m AlleleHandle) (any, error) {
	switch {
	case p.IsDominant() && !m.IsDominant():
		return p.Value(), nil
	case !p.IsDominant() && m.IsDominant():
		return m.Value(), nil
	default:
		return p.FuseDecode(m)
	}
}

// Decode resolves every locus and hands the values to dst.Setup.
func (g *Genome) Decode(dst Genotype) error {
	if dst == nil {
		return fmt.Errorf("genotype is nil")
	}
	values, err := g.Resolve()
	if err != nil {
		return err
	}
	if err := dst.Setup(values); err != nil {
		return fmt.Errorf("genotype setup: %w", err)
	}
	return nil
}

func checkHandles(handles []AlleleHandle) error {
	for i, h := range handles {
		if h == nil {
			return &LocusError{Locus: i, Err: ErrNilAllele}
		}
	}
	return nil
}

func cloneHandles(in []AlleleHandle) []AlleleHandle {
	out := make([]AlleleHandle, len(in))
	for i, h := range in {
		out[i] = h.Clone()
	}
	return out
}
