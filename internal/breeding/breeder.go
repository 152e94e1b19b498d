package breeding

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mendel/internal/factory"
	"mendel/internal/genetic"
	"mendel/internal/metrics"
	"mendel/internal/model"
	"mendel/internal/storage"
	"mendel/internal/traits"
)

var (
	ErrSpeciesNotFound = errors.New("species not found")
	ErrGenomeNotFound  = errors.New("genome not found")
	ErrSpeciesMismatch = errors.New("parents belong to different species")
	ErrSpeciesInUse    = errors.New("species has genomes with a different locus layout")
)

type Config struct {
	Store    storage.Store
	Registry *traits.Registry
	Logger   *zap.Logger
	Metrics  *metrics.Collector
	// Seed drives every gamete draw. Zero picks a seed from the clock.
	Seed  int64
	Now   func() time.Time
	NewID func() string
}

// CrossResult is the stored child plus its lineage entry.
type CrossResult struct {
	Child   model.GenomeRecord
	Lineage model.LineageRecord
}

// Breeder founds, crosses and decodes stored genomes. A single seeded
// random source is shared by all crosses, so a fixed seed and call order
// reproduce the same offspring.
type Breeder struct {
	store   storage.Store
	adapter *factory.Adapter
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
	newID   func() string

	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

func New(cfg Config) (*Breeder, error) {
	if cfg.Store == nil {
		return nil, errors.New("breeder requires a store")
	}
	b := &Breeder{
		store:   cfg.Store,
		adapter: factory.New(cfg.Registry),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     cfg.Now,
		newID:   cfg.NewID,
		seed:    cfg.Seed,
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.metrics == nil {
		b.metrics = metrics.New()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	if b.seed == 0 {
		b.seed = time.Now().UnixNano()
	}
	b.rng = rand.New(rand.NewSource(b.seed))
	return b, nil
}

func (b *Breeder) Seed() int64 {
	return b.seed
}

func (b *Breeder) Registry() *traits.Registry {
	return b.adapter.Registry()
}

func (b *Breeder) Init(ctx context.Context) error {
	if err := b.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	b.logger.Debug("breeder ready", zap.Int64("seed", b.seed))
	return nil
}

// DefineSpecies validates and stores a species. Redefining a species is
// allowed unless stored genomes would no longer fit its locus layout.
func (b *Breeder) DefineSpecies(ctx context.Context, species model.SpeciesRecord) (model.SpeciesRecord, error) {
	if err := b.adapter.ValidateSpecies(species); err != nil {
		return model.SpeciesRecord{}, err
	}
	existing, ok, err := b.store.GetSpecies(ctx, species.Name)
	if err != nil {
		return model.SpeciesRecord{}, err
	}
	if ok && !sameLayout(existing, species) {
		genomes, err := b.store.ListGenomes(ctx, species.Name)
		if err != nil {
			return model.SpeciesRecord{}, err
		}
		if len(genomes) > 0 {
			return model.SpeciesRecord{}, fmt.Errorf("%w: %s (%d genomes)", ErrSpeciesInUse, species.Name, len(genomes))
		}
	}

	species.VersionedRecord = storage.CurrentVersion()
	if err := b.store.SaveSpecies(ctx, species); err != nil {
		return model.SpeciesRecord{}, err
	}
	b.logger.Info("species defined", zap.String("species", species.Name), zap.Int("loci", len(species.Loci)))
	return species, nil
}

func (b *Breeder) Species(ctx context.Context, name string) (model.SpeciesRecord, error) {
	species, ok, err := b.store.GetSpecies(ctx, name)
	if err != nil {
		return model.SpeciesRecord{}, err
	}
	if !ok {
		return model.SpeciesRecord{}, fmt.Errorf("%w: %s", ErrSpeciesNotFound, name)
	}
	return species, nil
}

func (b *Breeder) ListSpecies(ctx context.Context) ([]model.SpeciesRecord, error) {
	return b.store.ListSpecies(ctx)
}

// Found stores a new homozygous individual built from the species' founder
// alleles.
func (b *Breeder) Found(ctx context.Context, speciesName string) (model.GenomeRecord, error) {
	species, err := b.Species(ctx, speciesName)
	if err != nil {
		return model.GenomeRecord{}, err
	}
	g, err := b.adapter.Founder(species)
	if err != nil {
		return model.GenomeRecord{}, fmt.Errorf("found %s: %w", species.Name, err)
	}
	rec, err := b.adapter.Snapshot(b.newID(), species.Name, g, b.now())
	if err != nil {
		return model.GenomeRecord{}, err
	}
	if err := b.store.SaveGenome(ctx, rec); err != nil {
		return model.GenomeRecord{}, err
	}
	b.metrics.Founders.Inc()
	b.logger.Info("founder created",
		zap.String("genome_id", rec.ID),
		zap.String("species", rec.Species),
		zap.Int("loci", g.Len()),
	)
	return rec, nil
}

// Cross breeds two stored genomes of the same species, stores the child and
// records its lineage.
func (b *Breeder) Cross(ctx context.Context, fatherID, motherID string) (CrossResult, error) {
	fatherRec, err := b.Genome(ctx, fatherID)
	if err != nil {
		return CrossResult{}, err
	}
	motherRec, err := b.Genome(ctx, motherID)
	if err != nil {
		return CrossResult{}, err
	}
	if fatherRec.Species != motherRec.Species {
		return CrossResult{}, fmt.Errorf("%w: %s is %s, %s is %s",
			ErrSpeciesMismatch, fatherID, fatherRec.Species, motherID, motherRec.Species)
	}

	father, err := b.adapter.Assemble(fatherRec)
	if err != nil {
		return CrossResult{}, err
	}
	mother, err := b.adapter.Assemble(motherRec)
	if err != nil {
		return CrossResult{}, err
	}

	b.mu.Lock()
	child, err := genetic.Cross(father, mother, b.rng)
	b.mu.Unlock()
	if err != nil {
		return CrossResult{}, fmt.Errorf("cross %s x %s: %w", fatherID, motherID, err)
	}

	now := b.now()
	childRec, err := b.adapter.Snapshot(b.newID(), fatherRec.Species, child, now)
	if err != nil {
		return CrossResult{}, err
	}
	byKind := novelAlleles(father, child.Paternal())
	for kind, n := range novelAlleles(mother, child.Maternal()) {
		byKind[kind] += n
	}
	mutations := 0
	for _, n := range byKind {
		mutations += n
	}

	lineage := model.LineageRecord{
		VersionedRecord: storage.CurrentVersion(),
		ChildID:         childRec.ID,
		FatherID:        fatherID,
		MotherID:        motherID,
		Species:         childRec.Species,
		Mutations:       mutations,
		CreatedAt:       childRec.CreatedAt,
	}
	if err := b.store.SaveGenome(ctx, childRec); err != nil {
		return CrossResult{}, err
	}
	if err := b.store.SaveLineage(ctx, lineage); err != nil {
		if delErr := b.store.DeleteGenome(ctx, childRec.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("discard child %s: %w", childRec.ID, delErr))
		}
		return CrossResult{}, err
	}

	b.metrics.ObserveCross(childRec.Species, child.Len(), byKind)
	b.logger.Info("genomes crossed",
		zap.String("genome_id", childRec.ID),
		zap.String("father_id", fatherID),
		zap.String("mother_id", motherID),
		zap.Int("loci", child.Len()),
		zap.Int("mutations", mutations),
	)
	return CrossResult{Child: childRec, Lineage: lineage}, nil
}

// Decode resolves dominance at every locus into a named phenotype.
func (b *Breeder) Decode(ctx context.Context, id string) (*traits.Profile, error) {
	profile, err := b.decode(ctx, id)
	b.metrics.ObserveDecode(err)
	if err != nil {
		b.logger.Warn("decode failed", zap.String("genome_id", id), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

func (b *Breeder) decode(ctx context.Context, id string) (*traits.Profile, error) {
	rec, err := b.Genome(ctx, id)
	if err != nil {
		return nil, err
	}
	species, err := b.Species(ctx, rec.Species)
	if err != nil {
		return nil, err
	}
	g, err := b.adapter.Assemble(rec)
	if err != nil {
		return nil, err
	}
	profile := traits.NewProfile(species.LocusNames())
	if err := g.Decode(profile); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return profile, nil
}

func (b *Breeder) Genome(ctx context.Context, id string) (model.GenomeRecord, error) {
	rec, ok, err := b.store.GetGenome(ctx, id)
	if err != nil {
		return model.GenomeRecord{}, err
	}
	if !ok {
		return model.GenomeRecord{}, fmt.Errorf("%w: %s", ErrGenomeNotFound, id)
	}
	return rec, nil
}

func (b *Breeder) List(ctx context.Context, species string) ([]model.GenomeRecord, error) {
	return b.store.ListGenomes(ctx, species)
}

// Remove deletes a genome. Lineage entries naming it are kept.
func (b *Breeder) Remove(ctx context.Context, id string) error {
	if _, err := b.Genome(ctx, id); err != nil {
		return err
	}
	if err := b.store.DeleteGenome(ctx, id); err != nil {
		return err
	}
	b.logger.Info("genome removed", zap.String("genome_id", id))
	return nil
}

// Lineage walks ancestry breadth first starting at id. Founders have no
// entry. depth <= 0 walks to the founders.
func (b *Breeder) Lineage(ctx context.Context, id string, depth int) ([]model.LineageRecord, error) {
	var out []model.LineageRecord
	seen := map[string]struct{}{id: {}}
	frontier := []string{id}
	for level := 0; len(frontier) > 0 && (depth <= 0 || level < depth); level++ {
		var next []string
		for _, childID := range frontier {
			rec, ok, err := b.store.GetLineage(ctx, childID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, rec)
			for _, parent := range []string{rec.FatherID, rec.MotherID} {
				if _, dup := seen[parent]; dup {
					continue
				}
				seen[parent] = struct{}{}
				next = append(next, parent)
			}
		}
		frontier = next
	}
	return out, nil
}

// novelAlleles counts, per kind, gamete alleles whose value is carried by
// neither side of the parent at that locus.
func novelAlleles(parent *genetic.Genome, gamete []genetic.AlleleHandle) map[string]int {
	out := make(map[string]int)
	for i, h := range gamete {
		p, m := parent.Locus(i)
		v := h.Value()
		if reflect.DeepEqual(v, p.Value()) || reflect.DeepEqual(v, m.Value()) {
			continue
		}
		out[h.Kind()]++
	}
	return out
}

func sameLayout(a, b model.SpeciesRecord) bool {
	if len(a.Loci) != len(b.Loci) {
		return false
	}
	for i := range a.Loci {
		if traits.NormalizeKind(a.Loci[i].Kind) != traits.NormalizeKind(b.Loci[i].Kind) {
			return false
		}
	}
	return true
}
