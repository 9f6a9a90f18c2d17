package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/registry"
)

var (
	flagFetchName   string
	flagFetchOutput string
	flagFetchFormat string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Fetch a year of contributions and save it",
	Long: `Fetch the last 365 days from a source and save them in the dataset
database under --name (default: the source id). With --output the days are
also written to a YAML or JSON file that the file source can replay.

Examples:
  gitstreak fetch github
  gitstreak fetch github --user octocat --name octocat
  gitstreak fetch heavy --seed 3 --output heavy.json`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&flagFetchName, "name", "", "Dataset name (default: source id)")
	fetchCmd.Flags().StringVarP(&flagFetchOutput, "output", "o", "", "Also write the days to this file")
	fetchCmd.Flags().StringVar(&flagFetchFormat, "format", "", "Output format: yaml or json (default: from extension)")
	fetchCmd.Flags().StringVar(&flagFile, "file", "", "Dataset file for the file source")
	fetchCmd.Flags().StringVar(&flagUser, "user", "", "GitHub login (default: token owner)")
}

func runFetch(_ *cobra.Command, args []string) {
	id := args[0]
	if flagFile != "" {
		cfg.Dataset.File = flagFile
	}
	if flagUser != "" {
		cfg.GitHub.User = flagUser
	}

	src, err := registry.Create(id, sourceOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	days, err := src.Fetch(ctx, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", id, err)
		os.Exit(1)
	}

	name := flagFetchName
	if name == "" {
		name = id
	}

	store, err := openStore(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening dataset database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.SaveDataset(ctx, name, id, days); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving dataset: %v\n", err)
		os.Exit(1)
	}

	if flagFetchOutput != "" {
		if err := writeDays(flagFetchOutput, flagFetchFormat, name, days); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", flagFetchOutput, err)
			os.Exit(1)
		}
	}

	sum := contrib.Summarize(days)
	fmt.Printf("Saved %q: %d days, %d active, %d commits\n", name, sum.Days, sum.ActiveDays, sum.TotalCommits)
	if flagFetchOutput != "" {
		fmt.Printf("Wrote %s\n", flagFetchOutput)
	}
	fmt.Printf("Run 'gitstreak play --dataset %s' to play it.\n", name)
}

func writeDays(path, format, name string, days []contrib.Day) error {
	var f contrib.Format
	var err error
	if format != "" {
		f, err = contrib.ParseFormat(format)
	} else {
		f, err = contrib.FormatFromPath(path)
	}
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := contrib.Write(out, days, f); err != nil {
		out.Close()
		return err
	}
	logger.Debug("Dataset written", "dataset", name, "path", path, "format", f)
	return out.Close()
}
