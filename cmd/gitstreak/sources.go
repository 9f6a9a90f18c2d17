package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riannelimje/git-streak/internal/registry"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all contribution sources",
	Long:  `Shows every source a game can be played from.`,
	Run:   runSources,
}

func runSources(_ *cobra.Command, _ []string) {
	sources := registry.List()

	fmt.Println("Available sources:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range sources {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, s := range sources {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'gitstreak play <id>' to play a source.")
}
