package genetic

// Genotype is the caller-supplied phenotype shape. Setup receives one value
// per locus, in locus order, and must fail with ErrLocusCountMismatch (see
// CheckLoci) when the count is not what it expects.
type Genotype interface {
	Setup(values []any) error
}

// GenotypePtr constrains PT to a pointer to T that implements Genotype, so
// DecodeAs can allocate a fresh T without reflection.
type GenotypePtr[T any] interface {
	*T
	Genotype
}

// DecodeAs decodes g into a freshly allocated T.
func DecodeAs[T any, PT GenotypePtr[T]](g *Genome) (T, error) {
	var out T
	if g == nil {
		return out, ErrNilGenome
	}
	if err := g.Decode(PT(&out)); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Factory builds genomes of one species from a flat allele list, the way a
// persistence layer hands over stored loci.
type Factory func(genes []AlleleHandle) (*Genome, error)

// FounderFactory is the Factory that builds homozygous founders.
var FounderFactory Factory = NewFounder
