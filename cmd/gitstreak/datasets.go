package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List saved datasets",
	Long: `Display every dataset in the database, including years cached by
the github source.

Examples:
  gitstreak datasets
  gitstreak datasets rm octocat`,
	Args: cobra.NoArgs,
	Run:  runDatasets,
}

var datasetsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a saved dataset",
	Args:  cobra.ExactArgs(1),
	Run:   runDatasetsRm,
}

func init() {
	datasetsCmd.AddCommand(datasetsRmCmd)
}

func runDatasets(_ *cobra.Command, _ []string) {
	store, err := openStore(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening dataset database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	infos, err := store.ListDatasets(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing datasets: %v\n", err)
		return
	}

	if len(infos) == 0 {
		fmt.Println("No datasets saved yet.")
		fmt.Println()
		fmt.Println("Run 'gitstreak fetch <source>' to save one!")
		return
	}

	fmt.Printf("  %-16s  %-8s  %5s  %6s  %8s  %s\n", "Name", "Source", "Days", "Active", "Commits", "Fetched")
	fmt.Printf("  %-16s  %-8s  %5s  %6s  %8s  %s\n", "----", "------", "----", "------", "-------", "-------")
	for _, d := range infos {
		fmt.Printf("  %-16s  %-8s  %5d  %6d  %8d  %s\n",
			d.Name, d.Source, d.Days, d.ActiveDays, d.TotalCommits, d.FetchedAt.Format("2006-01-02 15:04"))
	}
}

func runDatasetsRm(_ *cobra.Command, args []string) {
	store, err := openStore(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening dataset database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.DeleteDataset(context.Background(), args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("Deleted %q\n", args[0])
}
