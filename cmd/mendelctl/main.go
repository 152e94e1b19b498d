package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mendel/internal/config"
	"mendel/internal/logging"
	"mendel/pkg/mendel"
)

const defaultConfigPath = "mendel.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what the persistent pre-run hook opens. The caller of
// Execute closes it, whether or not the command failed.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	client *mendel.Client
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "mendelctl",
		Short: "Found, cross and decode diploid genomes",
		Long: `mendelctl breeds individuals of species defined in YAML files.

Each individual carries a paternal and a maternal allele per locus. Crossing
draws one gamete from each parent; decoding resolves dominance locus by locus.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInitCmd(a),
		newSpeciesCmd(a),
		newFoundCmd(a),
		newCrossCmd(a),
		newDecodeCmd(a),
		newShowCmd(a),
		newLineageCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newStatsCmd(a),
	)
	return root, a
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", a.configPath, err)
	}
	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	client, err := mendel.New(mendel.OptionsFromConfig(cfg, logger))
	if err != nil {
		_ = logger.Sync()
		return err
	}
	if err := client.Init(cmd.Context()); err != nil {
		_ = client.Close()
		_ = logger.Sync()
		return err
	}
	logger.Debug("store opened",
		zap.String("store", cfg.Store.Kind),
		zap.Int64("seed", client.Seed()),
	)

	a.cfg = cfg
	a.logger = logger
	a.client = client
	return nil
}

func (a *app) close() error {
	var err error
	if a.client != nil {
		err = a.client.Close()
		a.client = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
