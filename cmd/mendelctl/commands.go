package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mendel/pkg/mendel"
)

func newInitCmd(a *app) *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(out(cmd), "initialized store=%s seed=%d\n", a.cfg.Store.Kind, a.client.Seed())
			if !writeConfig {
				return nil
			}
			if _, err := os.Stat(a.configPath); err == nil {
				fmt.Fprintf(out(cmd), "config kept path=%s\n", a.configPath)
				return nil
			}
			if err := a.cfg.Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "config written path=%s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "write the resolved config when the config file does not exist")
	return cmd
}

func newSpeciesCmd(a *app) *cobra.Command {
	species := &cobra.Command{
		Use:   "species",
		Short: "Define and inspect species",
	}
	species.AddCommand(
		&cobra.Command{
			Use:   "define <file.yaml>...",
			Short: "Store species definitions from YAML files",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, path := range args {
					rec, err := a.client.DefineSpeciesFile(cmd.Context(), path)
					if err != nil {
						return err
					}
					fmt.Fprintf(out(cmd), "species defined name=%s loci=%d\n", rec.Name, len(rec.Loci))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored species",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				all, err := a.client.ListSpecies(cmd.Context())
				if err != nil {
					return err
				}
				for _, rec := range all {
					fmt.Fprintf(out(cmd), "name=%s loci=%s\n", rec.Name, strings.Join(rec.LocusNames(), ","))
				}
				return nil
			},
		},
	)
	return species
}

func newFoundCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "found <species>",
		Short: "Create homozygous founders of a species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be >= 1")
			}
			for range count {
				rec, err := a.client.Found(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "founded genome_id=%s species=%s\n", rec.ID, rec.Species)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of founders")
	return cmd
}

func newCrossCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "cross <father-id> <mother-id>",
		Short: "Cross two genomes of the same species",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be >= 1")
			}
			for range count {
				summary, err := a.client.Cross(cmd.Context(), mendel.CrossRequest{FatherID: args[0], MotherID: args[1]})
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "crossed genome_id=%s father_id=%s mother_id=%s mutations=%d\n",
					summary.Child.ID, args[0], args[1], summary.Mutations)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of offspring")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "decode <genome-id>",
		Short: "Print the phenotype of a genome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phenotype, err := a.client.Decode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(phenotype)
			}
			fmt.Fprintf(out(cmd), "genome_id=%s species=%s\n", phenotype.GenomeID, phenotype.Species)
			for _, trait := range phenotype.Traits {
				fmt.Fprintf(out(cmd), "%s=%v\n", trait.Name, trait.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <genome-id>",
		Short: "Print both alleles at every locus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.client.Genome(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			species, err := a.client.Species(cmd.Context(), rec.Species)
			if err != nil {
				return err
			}
			names := species.LocusNames()
			fmt.Fprintf(out(cmd), "genome_id=%s species=%s created_at=%s\n",
				rec.ID, rec.Species, rec.CreatedAt.Format(time.RFC3339))
			for i := range rec.Paternal {
				name := fmt.Sprintf("locus%d", i)
				if i < len(names) {
					name = names[i]
				}
				fmt.Fprintf(out(cmd), "%s paternal=%s maternal=%s\n",
					name, formatAllele(rec.Paternal[i]), formatAllele(rec.Maternal[i]))
			}
			return nil
		},
	}
}

func newLineageCmd(a *app) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "lineage <genome-id>",
		Short: "Print the ancestry of a genome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.client.Lineage(cmd.Context(), mendel.LineageRequest{GenomeID: args[0], Depth: depth})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(out(cmd), "genome_id=%s founder=true\n", args[0])
				return nil
			}
			for _, rec := range records {
				fmt.Fprintf(out(cmd), "child_id=%s father_id=%s mother_id=%s mutations=%d\n",
					rec.ChildID, rec.FatherID, rec.MotherID, rec.Mutations)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "generations to walk, 0 for all")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var species string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored genomes, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			genomes, err := a.client.List(cmd.Context(), mendel.ListRequest{Species: species, Limit: limit})
			if err != nil {
				return err
			}
			for _, rec := range genomes {
				fmt.Fprintf(out(cmd), "genome_id=%s species=%s loci=%d created_at=%s\n",
					rec.ID, rec.Species, len(rec.Paternal), rec.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&species, "species", "", "only this species")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep only the newest n")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <genome-id>",
		Short: "Delete a genome; its lineage entry is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "removed genome_id=%s\n", args[0])
			return nil
		},
	}
}

func formatAllele(rec mendel.AlleleRecord) string {
	mark := "r"
	if rec.Dominant {
		mark = "D"
	}
	return fmt.Sprintf("%v[%s]", rec.Value, mark)
}

func newStatsCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "stats <species>",
		Short: "Summarize the phenotypes of a species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.client.Stats(cmd.Context(), mendel.StatsRequest{Species: args[0], OutDir: outDir})
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "species=%s genomes=%d\n", summary.Species, summary.Genomes)
			for _, trait := range summary.Traits {
				if trait.Numeric {
					fmt.Fprintf(out(cmd), "trait=%s mean=%.4f min=%.4f max=%.4f\n", trait.Name, trait.Mean, trait.Min, trait.Max)
					continue
				}
				counts := make([]string, 0, len(trait.Values))
				for _, v := range trait.SortedValues() {
					counts = append(counts, fmt.Sprintf("%s:%d", v, trait.Values[v]))
				}
				fmt.Fprintf(out(cmd), "trait=%s values=%s\n", trait.Name, strings.Join(counts, ","))
			}
			if summary.Directory != "" {
				fmt.Fprintf(out(cmd), "artifacts_dir=%s\n", summary.Directory)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "write phenotype CSV and summary JSON here")
	return cmd
}
