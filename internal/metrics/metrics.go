package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mendel"

// Decode outcomes used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector groups the breeder's counters. Register it on the caller's
// registry; nothing is registered globally.
type Collector struct {
	Founders  prometheus.Counter
	Crosses   *prometheus.CounterVec
	Gametes   prometheus.Counter
	Mutations *prometheus.CounterVec
	Decodes   *prometheus.CounterVec
	Loci      prometheus.Histogram
}

func New() *Collector {
	return &Collector{
		Founders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "founders_total",
			Help:      "Founder genomes created from species definitions.",
		}),
		Crosses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crosses_total",
			Help:      "Crosses performed, by species.",
		}, []string{"species"}),
		Gametes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gametes_total",
			Help:      "Gametes produced while crossing.",
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Alleles that changed value during replication, by kind.",
		}, []string{"kind"}),
		Decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decodes_total",
			Help:      "Genotype decodes, by outcome.",
		}, []string{"outcome"}),
		Loci: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "genome_loci",
			Help:      "Locus count of crossed genomes.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.Founders, c.Crosses, c.Gametes, c.Mutations, c.Decodes, c.Loci}
}

func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range c.collectors() {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveCross records one cross: two gametes and the per-kind mutation
// counts of the child.
func (c *Collector) ObserveCross(species string, loci int, mutationsByKind map[string]int) {
	c.Crosses.WithLabelValues(species).Inc()
	c.Gametes.Add(2)
	c.Loci.Observe(float64(loci))
	for kind, n := range mutationsByKind {
		c.Mutations.WithLabelValues(kind).Add(float64(n))
	}
}

func (c *Collector) ObserveDecode(err error) {
	if err != nil {
		c.Decodes.WithLabelValues(OutcomeError).Inc()
		return
	}
	c.Decodes.WithLabelValues(OutcomeOK).Inc()
}
