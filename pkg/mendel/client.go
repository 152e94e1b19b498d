package mendel

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mendel/internal/breeding"
	"mendel/internal/config"
	"mendel/internal/metrics"
	"mendel/internal/stats"
	"mendel/internal/storage"
)

const defaultSQLitePath = "mendel.db"

var (
	ErrSpeciesNotFound = breeding.ErrSpeciesNotFound
	ErrGenomeNotFound  = breeding.ErrGenomeNotFound
	ErrSpeciesMismatch = breeding.ErrSpeciesMismatch
	ErrSpeciesInUse    = breeding.ErrSpeciesInUse
)

type S3Options = storage.S3Config

type Options struct {
	StoreKind   string
	SQLitePath  string
	PostgresDSN string
	S3          S3Options
	Seed        int64
	// Registry defaults to DefaultRegistry.
	Registry *Registry
	Logger   *zap.Logger
	// Registerer receives the breeder's metrics when set.
	Registerer prometheus.Registerer
}

type Client struct {
	store   storage.Store
	breeder *breeding.Breeder
}

type CrossRequest struct {
	FatherID string
	MotherID string
}

type CrossSummary struct {
	Child     GenomeRecord
	Mutations int
}

type Phenotype struct {
	GenomeID string  `json:"genome_id"`
	Species  string  `json:"species"`
	Traits   []Trait `json:"traits"`
}

// LineageRequest also works for removed genomes, whose lineage entries are
// kept.
type LineageRequest struct {
	GenomeID string
	// Depth limits how many generations are walked; zero walks to the
	// founders.
	Depth int
}

type StatsRequest struct {
	Species string
	// OutDir, when set, receives a phenotype CSV and a JSON summary.
	OutDir string
}

type TraitSummary = stats.TraitSummary

type StatsSummary struct {
	Species   string
	Genomes   int
	Traits    []TraitSummary
	Directory string
}

type ListRequest struct {
	Species string
	Limit   int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	sqlitePath := opts.SQLitePath
	if sqlitePath == "" {
		sqlitePath = defaultSQLitePath
	}

	store, err := storage.NewStore(storeKind, storage.Options{
		SQLitePath:  sqlitePath,
		PostgresDSN: opts.PostgresDSN,
		S3:          opts.S3,
	})
	if err != nil {
		return nil, err
	}

	collector := metrics.New()
	if opts.Registerer != nil {
		if err := collector.Register(opts.Registerer); err != nil {
			return nil, err
		}
	}

	breeder, err := breeding.New(breeding.Config{
		Store:    store,
		Registry: opts.Registry,
		Logger:   opts.Logger,
		Metrics:  collector,
		Seed:     opts.Seed,
	})
	if err != nil {
		return nil, err
	}
	return &Client{store: store, breeder: breeder}, nil
}

// OptionsFromConfig maps a loaded configuration onto client options.
func OptionsFromConfig(cfg *config.Config, logger *zap.Logger) Options {
	store := cfg.StoreOptions()
	return Options{
		StoreKind:   cfg.Store.Kind,
		SQLitePath:  store.SQLitePath,
		PostgresDSN: store.PostgresDSN,
		S3:          store.S3,
		Seed:        cfg.Breeder.Seed,
		Logger:      logger,
	}
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.breeder.Init(ctx)
}

// Seed is the seed actually in use, useful when none was configured.
func (c *Client) Seed() int64 {
	return c.breeder.Seed()
}

func (c *Client) Registry() *Registry {
	return c.breeder.Registry()
}

func (c *Client) DefineSpecies(ctx context.Context, species SpeciesRecord) (SpeciesRecord, error) {
	return c.breeder.DefineSpecies(ctx, species)
}

// DefineSpeciesFile loads a YAML species definition and stores it.
func (c *Client) DefineSpeciesFile(ctx context.Context, path string) (SpeciesRecord, error) {
	species, err := config.LoadSpecies(path)
	if err != nil {
		return SpeciesRecord{}, err
	}
	return c.breeder.DefineSpecies(ctx, species)
}

func (c *Client) Species(ctx context.Context, name string) (SpeciesRecord, error) {
	return c.breeder.Species(ctx, name)
}

func (c *Client) ListSpecies(ctx context.Context) ([]SpeciesRecord, error) {
	return c.breeder.ListSpecies(ctx)
}

func (c *Client) Found(ctx context.Context, species string) (GenomeRecord, error) {
	return c.breeder.Found(ctx, species)
}

func (c *Client) Cross(ctx context.Context, req CrossRequest) (CrossSummary, error) {
	if req.FatherID == "" || req.MotherID == "" {
		return CrossSummary{}, errors.New("father and mother ids are required")
	}
	result, err := c.breeder.Cross(ctx, req.FatherID, req.MotherID)
	if err != nil {
		return CrossSummary{}, err
	}
	return CrossSummary{Child: result.Child, Mutations: result.Lineage.Mutations}, nil
}

func (c *Client) Decode(ctx context.Context, genomeID string) (Phenotype, error) {
	rec, err := c.breeder.Genome(ctx, genomeID)
	if err != nil {
		return Phenotype{}, err
	}
	profile, err := c.breeder.Decode(ctx, genomeID)
	if err != nil {
		return Phenotype{}, err
	}
	return Phenotype{GenomeID: genomeID, Species: rec.Species, Traits: profile.Traits()}, nil
}

func (c *Client) Genome(ctx context.Context, genomeID string) (GenomeRecord, error) {
	return c.breeder.Genome(ctx, genomeID)
}

// List returns genomes oldest first. A positive Limit keeps the newest
// Limit entries.
func (c *Client) List(ctx context.Context, req ListRequest) ([]GenomeRecord, error) {
	genomes, err := c.breeder.List(ctx, req.Species)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(genomes) > req.Limit {
		genomes = genomes[len(genomes)-req.Limit:]
	}
	return genomes, nil
}

func (c *Client) Lineage(ctx context.Context, req LineageRequest) ([]LineageRecord, error) {
	if req.GenomeID == "" {
		return nil, errors.New("genome id is required")
	}
	return c.breeder.Lineage(ctx, req.GenomeID, req.Depth)
}

func (c *Client) Remove(ctx context.Context, genomeID string) error {
	return c.breeder.Remove(ctx, genomeID)
}

// Stats decodes every genome of a species and summarizes each trait.
func (c *Client) Stats(ctx context.Context, req StatsRequest) (StatsSummary, error) {
	if _, err := c.breeder.Species(ctx, req.Species); err != nil {
		return StatsSummary{}, err
	}
	genomes, err := c.breeder.List(ctx, req.Species)
	if err != nil {
		return StatsSummary{}, err
	}
	rows := make([]stats.Row, 0, len(genomes))
	for _, rec := range genomes {
		profile, err := c.breeder.Decode(ctx, rec.ID)
		if err != nil {
			return StatsSummary{}, err
		}
		rows = append(rows, stats.Row{GenomeID: rec.ID, Traits: profile.Traits()})
	}

	report := stats.Report{Species: req.Species, Genomes: len(rows), Traits: stats.Summarize(rows)}
	summary := StatsSummary{Species: report.Species, Genomes: report.Genomes, Traits: report.Traits}
	if req.OutDir != "" {
		dir, err := stats.WriteArtifacts(req.OutDir, report, rows)
		if err != nil {
			return StatsSummary{}, err
		}
		summary.Directory = dir
	}
	return summary, nil
}
