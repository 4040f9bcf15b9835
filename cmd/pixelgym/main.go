// pixelgym runs procedurally generated benchmark environments in the
// terminal.
//
// Usage:
//
//	pixelgym list              - List available environments
//	pixelgym run <env>         - Run headless rollouts
//	pixelgym watch <env>       - Watch an environment interactively
//	pixelgym episodes          - Browse recorded episodes
//	pixelgym serve             - Start SSH server for remote watching
//
// Global flags:
//
//	--res <n>       - Square frame resolution (default: 64)
//	--db <path>     - Episodes database path (default: ~/.pixelgym/episodes.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import titles to register them
	_ "github.com/vovakirdan/pixelgym/internal/games/fruitbot"
	_ "github.com/vovakirdan/pixelgym/internal/games/maze"
)

var (
	// Global flags
	flagRes    int
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelgym",
	Short: "Procedurally generated benchmark environments in your terminal",
	Long: `pixelgym runs procedurally generated 2D benchmark environments with
deterministic, seed-reproducible episodes.

Available commands:
  list     - Show all available environments
  run      - Run headless rollouts with a random policy
  watch    - Drive an environment interactively
  episodes - Browse recorded episode results
  serve    - Start SSH server for remote watching

Examples:
  pixelgym list
  pixelgym run fruitbot --episodes 100
  pixelgym watch maze --distribution memory
  pixelgym serve --ssh :2222
  pixelgym episodes`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagRes, "res", 64, "Square frame resolution in pixels")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pixelgym/episodes.db", "Path to episodes database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(serveCmd)
}
