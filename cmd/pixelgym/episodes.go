package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelgym/internal/platform/tui"
	"github.com/vovakirdan/pixelgym/internal/storage"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes",
	Short: "Browse recorded episode results",
	Long: `Open the interactive browser over episodes recorded by 'run' and
'watch'. Tab switches environments, 's' toggles between best-reward and
most-recent ordering.

Examples:
  pixelgym episodes
  pixelgym episodes --db ./episodes.db`,
	Run: runEpisodes,
}

func runEpisodes(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening episodes database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if _, err := tui.RunEpisodes(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running episode browser: %v\n", err)
		os.Exit(1)
	}
}
