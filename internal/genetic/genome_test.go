package genetic

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenomeRejectsMismatchedSides(t *testing.T) {
	_, err := NewGenome(threeLoci(0), threeLoci(0)[:2])
	require.ErrorIs(t, err, ErrLocusCountMismatch)
}

func TestNewGenomeRejectsNilHandles(t *testing.T) {
	genes := threeLoci(0)
	genes[1] = nil
	_, err := NewGenome(threeLoci(0), genes)
	require.ErrorIs(t, err, ErrNilAllele)

	var locusErr *LocusError
	require.True(t, errors.As(err, &locusErr))
	assert.Equal(t, 1, locusErr.Locus)

	_, err = NewFounder(genes)
	require.ErrorIs(t, err, ErrNilAllele)
}

func TestNewGenomeTakesOwnership(t *testing.T) {
	paternal, maternal := threeLoci(0), threeLoci(0)
	g, err := NewGenome(paternal, maternal)
	require.NoError(t, err)

	for i := range paternal {
		p, m := g.Locus(i)
		assert.Same(t, paternal[i], p)
		assert.Same(t, maternal[i], m)
	}
}

func TestFounderClonesBothSides(t *testing.T) {
	genes := threeLoci(0.5)
	g, err := NewFounder(genes)
	require.NoError(t, err)
	require.Equal(t, len(genes), g.Len())
	require.Len(t, g.Paternal(), len(genes))
	require.Len(t, g.Maternal(), len(genes))

	for i := range genes {
		p, m := g.Locus(i)
		assert.NotSame(t, p, m)
		assert.NotSame(t, genes[i], p)
		assert.Equal(t, p.Value(), m.Value())
		assert.Equal(t, genes[i].Value(), p.Value())
		assert.Equal(t, p.Kind(), m.Kind())
	}
}

func TestEmptyFounder(t *testing.T) {
	g, err := NewFounder(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())

	gamete, err := g.Gamete(newRand(1))
	require.NoError(t, err)
	assert.Empty(t, gamete)
}

func TestAccessorsReturnClones(t *testing.T) {
	g, err := NewFounder(threeLoci(0))
	require.NoError(t, err)

	paternal := g.Paternal()
	paternal[0].(*Allele[float64]).Encode(99)

	p, _ := g.Locus(0)
	assert.Equal(t, 1.5, p.Value())
}

func TestGameteLength(t *testing.T) {
	g, err := NewFounder(threeLoci(0.5))
	require.NoError(t, err)

	rng := newRand(3)
	for i := 0; i < 100; i++ {
		gamete, err := g.Gamete(rng)
		require.NoError(t, err)
		require.Len(t, gamete, g.Len())
	}
}

func TestGameteSelectsSidePerLocus(t *testing.T) {
	paternal := []AlleleHandle{intAllele(1, true, 0), intAllele(2, true, 0)}
	maternal := []AlleleHandle{intAllele(10, true, 0), intAllele(20, true, 0)}
	g, err := NewGenome(paternal, maternal)
	require.NoError(t, err)

	// per locus: side draw, then the replication draw
	rng := &seqRand{values: []float64{0.49, 0.9, 0.5, 0.9}}
	gamete, err := g.Gamete(rng)
	require.NoError(t, err)

	assert.Equal(t, 1, gamete[0].Value())
	assert.Equal(t, 20, gamete[1].Value())
	assert.NotSame(t, paternal[0], gamete[0])
	assert.NotSame(t, maternal[1], gamete[1])
}

func TestGameteDoesNotMutateSource(t *testing.T) {
	g, err := NewFounder([]AlleleHandle{intAllele(1, true, 1), intAllele(2, false, 1)})
	require.NoError(t, err)

	gamete, err := g.Gamete(newRand(5))
	require.NoError(t, err)
	assert.Equal(t, 101, gamete[0].Value())
	assert.Equal(t, 102, gamete[1].Value())

	for i := 0; i < g.Len(); i++ {
		p, m := g.Locus(i)
		assert.Equal(t, i+1, p.Value())
		assert.Equal(t, i+1, m.Value())
	}
}

func TestGameteReportsLocusOfFailedMutation(t *testing.T) {
	bare, err := NewAllele[int]("bare", 1, true, 1, RuleFuncs[int]{})
	require.NoError(t, err)
	g, err := NewFounder([]AlleleHandle{intAllele(1, true, 0), bare})
	require.NoError(t, err)

	_, err = g.Gamete(newRand(1))
	require.ErrorIs(t, err, ErrUnimplementedRule)

	var locusErr *LocusError
	require.True(t, errors.As(err, &locusErr))
	assert.Equal(t, 1, locusErr.Locus)
	assert.Equal(t, "bare", locusErr.Kind)
}

func TestGameteRequiresRandomSource(t *testing.T) {
	g, err := NewFounder(threeLoci(0))
	require.NoError(t, err)
	_, err = g.Gamete(nil)
	require.ErrorIs(t, err, ErrRandomSource)
}

func TestResolveDominanceTable(t *testing.T) {
	tests := []struct {
		name     string
		paternal *Allele[int]
		maternal *Allele[int]
		want     int
	}{
		{name: "paternal dominant", paternal: intAllele(3, true, 0), maternal: intAllele(4, false, 0), want: 3},
		{name: "maternal dominant", paternal: intAllele(3, false, 0), maternal: intAllele(4, true, 0), want: 4},
		{name: "codominant fuses", paternal: intAllele(3, true, 0), maternal: intAllele(4, true, 0), want: 7},
		{name: "recessive tie fuses", paternal: intAllele(3, false, 0), maternal: intAllele(4, false, 0), want: 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGenome([]AlleleHandle{tc.paternal}, []AlleleHandle{tc.maternal})
			require.NoError(t, err)
			values, err := g.Resolve()
			require.NoError(t, err)
			require.Equal(t, []any{tc.want}, values)
		})
	}
}

func TestResolveDominantSideIgnoresFusionRule(t *testing.T) {
	rule := RuleFuncs[int]{MutateFunc: sumRule.MutateFunc}
	p, err := NewAllele[int]("count", 3, true, 0, rule)
	require.NoError(t, err)
	m, err := NewAllele[int]("count", 4, false, 0, rule)
	require.NoError(t, err)

	g, err := NewGenome([]AlleleHandle{p}, []AlleleHandle{m})
	require.NoError(t, err)
	values, err := g.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []any{3}, values)
}

func TestFuseOrderIsPaternalThenMaternal(t *testing.T) {
	g, err := NewGenome(
		[]AlleleHandle{labelAllele("red", false, 0)},
		[]AlleleHandle{labelAllele("blue", false, 0)},
	)
	require.NoError(t, err)
	values, err := g.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []any{"red/blue"}, values)
}

func TestResolveTypeMismatchNamesLocus(t *testing.T) {
	g, err := NewGenome(
		[]AlleleHandle{intAllele(1, true, 0), intAllele(2, true, 0)},
		[]AlleleHandle{intAllele(1, true, 0), labelAllele("x", true, 0)},
	)
	require.NoError(t, err)

	_, err = g.Resolve()
	require.ErrorIs(t, err, ErrTypeMismatch)
	var locusErr *LocusError
	require.True(t, errors.As(err, &locusErr))
	assert.Equal(t, 1, locusErr.Locus)
	assert.Contains(t, err.Error(), "locus 1")
}

func TestDecodeIntoGenotype(t *testing.T) {
	g, err := NewGenome(
		[]AlleleHandle{floatAllele(1, false, 0), intAllele(3, true, 0), labelAllele("red", false, 0)},
		[]AlleleHandle{floatAllele(2, false, 0), intAllele(4, false, 0), labelAllele("blue", true, 0)},
	)
	require.NoError(t, err)

	var got traitSet
	require.NoError(t, g.Decode(&got))
	want := traitSet{Size: 1.5, Count: 3, Label: "blue"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded genotype mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsWrongLocusCount(t *testing.T) {
	g, err := NewFounder(threeLoci(0)[:2])
	require.NoError(t, err)

	_, err = DecodeAs[traitSet](g)
	require.ErrorIs(t, err, ErrLocusCountMismatch)
}

func TestDecodeIsIdempotent(t *testing.T) {
	g, err := NewGenome(threeLoci(1), []AlleleHandle{
		floatAllele(3.5, true, 1),
		intAllele(8, false, 1),
		labelAllele("green", false, 1),
	})
	require.NoError(t, err)

	first, err := DecodeAs[traitSet](g)
	require.NoError(t, err)
	second, err := DecodeAs[traitSet](g)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("decode changed between calls (-first +second):\n%s", diff)
	}
	assert.Equal(t, traitSet{Size: 2.5, Count: 11, Label: "red"}, first)
}

func TestCrossProducesChildWithParentLayout(t *testing.T) {
	father, err := NewFounder(threeLoci(0.2))
	require.NoError(t, err)
	mother, err := NewGenome(threeLoci(0.2), []AlleleHandle{
		floatAllele(4, false, 0.2),
		intAllele(9, true, 0.2),
		labelAllele("blue", false, 0.2),
	})
	require.NoError(t, err)

	rng := newRand(42)
	for i := 0; i < 200; i++ {
		child, err := Cross(father, mother, rng)
		require.NoError(t, err)
		require.Equal(t, 3, child.Len())
		for locus := 0; locus < child.Len(); locus++ {
			p, m := child.Locus(locus)
			fp, _ := father.Locus(locus)
			mp, _ := mother.Locus(locus)
			assert.IsType(t, fp, p)
			assert.IsType(t, mp, m)
			assert.Equal(t, fp.Kind(), p.Kind())
		}
		_, err = DecodeAs[traitSet](child)
		require.NoError(t, err)
	}
}

func TestCrossRejectsIncompatibleParents(t *testing.T) {
	father, err := NewFounder(threeLoci(0))
	require.NoError(t, err)
	mother, err := NewFounder(threeLoci(0)[:1])
	require.NoError(t, err)

	_, err = Cross(father, mother, newRand(1))
	require.ErrorIs(t, err, ErrLocusCountMismatch)

	_, err = Cross(nil, mother, newRand(1))
	require.ErrorIs(t, err, ErrNilGenome)
}
