// gitstreak turns a year of contribution history into a game of snake.
//
// Usage:
//
//	gitstreak play [source]      - Play a source, or pick one from the menu
//	gitstreak sources            - List contribution sources
//	gitstreak fetch <source>     - Fetch a year and save it as a dataset
//	gitstreak datasets           - List saved datasets
//	gitstreak serve              - Serve games over SSH and HTTP
//
// Global flags:
//
//	--config <path>   - Config file (default: ~/.gitstreak/config.yaml)
//	--seed <value>    - Seed for synthetic sources
//	--db <path>       - Dataset database path
//	--log-level <lvl> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/riannelimje/git-streak/internal/config"
	"github.com/riannelimje/git-streak/internal/game"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/storage"

	// Register contribution sources
	_ "github.com/riannelimje/git-streak/internal/sources"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitstreak",
	Short: "Git Streak - Eat your contribution calendar",
	Long: `Git Streak lays a year of contributions out as the familiar 7x53
calendar and lets a snake eat it. Every day with commits is a tile worth its
commit count; collect them all to win.

Available commands:
  play      - Play a source directly or pick one from the menu
  sources   - Show all contribution sources
  fetch     - Fetch a year and save it as a dataset
  datasets  - List or delete saved datasets
  serve     - Start SSH and HTTP servers for remote play

Examples:
  gitstreak play
  gitstreak play heavy --speed fast
  gitstreak play github --user octocat
  gitstreak fetch github --output year.yaml
  gitstreak serve --ssh :2222 --http :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Seed for synthetic sources (0 = config or time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to dataset database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads configuration and the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "gitstreak",
	})
	log.SetDefault(logger)

	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagSeed != 0 {
		cfg.Dataset.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	logger.Debug("Configuration loaded", "source", cfg.Dataset.Source, "tick", cfg.Game.EffectiveTickInterval())
	return nil
}

// sourceOptions maps configuration onto source factory options.
func sourceOptions() registry.Options {
	return registry.Options{
		Seed:     cfg.Dataset.Seed,
		Token:    cfg.GitHub.Token,
		User:     cfg.GitHub.User,
		Endpoint: cfg.GitHub.Endpoint,
		Path:     cfg.Dataset.File,
		Timeout:  cfg.GitHub.Timeout,
	}
}

func growthPolicy() game.GrowthPolicy {
	return game.GrowthPolicy{Every: cfg.Game.Growth.Every}
}

// openStore opens the dataset cache. Games still work without it, so callers
// that can do without pass optional=true and get nil on failure.
func openStore(optional bool) (*storage.Store, error) {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		if optional {
			logger.Warn("Could not open dataset database", "path", cfg.Storage.DBPath, "error", err)
			return nil, nil
		}
		return nil, err
	}
	return store, nil
}
