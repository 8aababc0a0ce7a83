package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenscan/backend/config"
	"github.com/greenscan/backend/internal/bootstrap"
	"github.com/greenscan/backend/internal/logger"
)

// env is the lazily loaded configuration shared by the subcommands
type env struct {
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

// load reads .env, the config and builds the logger. The CLI logs warnings
// only unless --verbose is set.
func (e *env) load() error {
	if e.cfg != nil {
		return nil
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if e.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		IsDevelopment:     true,
		Level:             level,
		DisableStacktrace: true,
	})
	if err != nil {
		return err
	}

	e.cfg, e.logger = cfg, log
	return nil
}

// app builds the wired services; the caller must Close it
func (e *env) app(ctx context.Context) (*bootstrap.App, error) {
	if err := e.load(); err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, e.cfg, e.logger)
}

// NewRootCommand builds the greenscan command tree
func NewRootCommand() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "greenscan",
		Short:        "GreenScan product lookup and scoring",
		Long:         "Resolve barcodes against Open Food Facts and Kassalapp, search products and compute sustainability scores.",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newResolveCommand(e))
	root.AddCommand(newSearchCommand(e))
	root.AddCommand(newScoreCommand())
	root.AddCommand(newFoodTableCommand(e))
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
