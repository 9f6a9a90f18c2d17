package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/riannelimje/git-streak/internal/config"
	"github.com/riannelimje/git-streak/internal/core"
	"github.com/riannelimje/git-streak/internal/platform/tui"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/storage"
)

var (
	flagSpeed   string
	flagTick    time.Duration
	flagGrowth  int
	flagFile    string
	flagUser    string
	flagDataset string
)

var playCmd = &cobra.Command{
	Use:   "play [source]",
	Short: "Play a contribution year",
	Long: `Start a game on a year of contributions. Without a source the menu
opens so you can pick one, or a saved dataset.

Controls:
  Arrows/WASD/HJKL - Steer
  P/Space          - Pause
  R                - Restart the same year
  N                - New game on a freshly fetched year
  Esc/B            - Back to menu (paused or over)
  Q/Ctrl+C         - Quit

Speed options:
  slow   - 220ms per step
  normal - 150ms per step
  fast   - 90ms per step

Examples:
  gitstreak play
  gitstreak play medium --seed 7
  gitstreak play file --file ./year.yaml
  gitstreak play github --user octocat --growth 5
  gitstreak play --dataset mine`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast")
	playCmd.Flags().DurationVar(&flagTick, "tick", 0, "Tick interval (overrides --speed)")
	playCmd.Flags().IntVar(&flagGrowth, "growth", -1, "Grow one segment every N tiles (0 = never)")
	playCmd.Flags().StringVar(&flagFile, "file", "", "Dataset file for the file source (.yaml, .yml, .json)")
	playCmd.Flags().StringVar(&flagUser, "user", "", "GitHub login (default: token owner)")
	playCmd.Flags().StringVar(&flagDataset, "dataset", "", "Play a saved dataset by name")
}

// applyPlayFlags folds the play flags into cfg.
func applyPlayFlags() error {
	if flagSpeed != "" {
		preset := config.SpeedPreset(flagSpeed)
		if !preset.Valid() {
			return fmt.Errorf("unknown speed %q (want slow, normal or fast)", flagSpeed)
		}
		config.ApplySpeedPreset(&cfg.Game, preset)
	}
	if flagTick > 0 {
		cfg.Game.TickInterval = flagTick
		cfg.Game.Speed = ""
	}
	if flagGrowth >= 0 {
		cfg.Game.Growth.Every = flagGrowth
	}
	if flagFile != "" {
		cfg.Dataset.File = flagFile
	}
	if flagUser != "" {
		cfg.GitHub.User = flagUser
	}
	return cfg.Validate()
}

func runPlay(_ *cobra.Command, args []string) {
	if err := applyPlayFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var sel *tui.Selection
	switch {
	case flagDataset != "":
		sel = &tui.Selection{ID: flagDataset, Title: flagDataset, Dataset: true}
	case len(args) == 1:
		info, ok := registry.Lookup(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown source %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'gitstreak sources' to see available sources.")
			os.Exit(1)
		}
		sel = &tui.Selection{ID: info.ID, Title: info.Title}
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.RuntimeConfig{
		ScreenW:      width,
		ScreenH:      height,
		TickInterval: cfg.Game.EffectiveTickInterval(),
		Seed:         cfg.Dataset.Seed,
	}

	// The alt screen owns the terminal; send logs to a file next to the database.
	if closeLog := logToFile(); closeLog != nil {
		defer closeLog()
	}

	store, _ := openStore(true)
	services := tui.Services{
		Store:   store,
		Sources: sourceOptions(),
		Growth:  growthPolicy(),
		Logger:  logger,

		DefaultSource: cfg.Dataset.Source,
	}

	var runErr error
	if sel == nil {
		runErr = tui.RunSession(services, rc)
	} else {
		load, err := services.NewLoader(*sel)
		if err != nil {
			if store != nil {
				store.Close()
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		runErr = tui.Run(sel.Title, load, services.Growth, rc)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// logToFile redirects the logger to gitstreak.log beside the database, or
// silences it when that file cannot be opened.
func logToFile() func() {
	dbPath, err := storage.ExpandPath(cfg.Storage.DBPath)
	if err != nil {
		logger.SetOutput(io.Discard)
		return nil
	}
	dir := filepath.Dir(dbPath)
	//nolint:errcheck // OpenFile reports the failure that matters
	os.MkdirAll(dir, 0o755)

	f, err := os.OpenFile(filepath.Join(dir, "gitstreak.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		logger.SetOutput(io.Discard)
		return nil
	}
	logger.SetOutput(f)
	return func() { f.Close() }
}
