package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelgym/internal/config"
	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/platform/tui"
	"github.com/vovakirdan/pixelgym/internal/registry"
	"github.com/vovakirdan/pixelgym/internal/render"
	"github.com/vovakirdan/pixelgym/internal/storage"
)

var (
	flagWatchConfig     string
	flagWatchDist       string
	flagWatchSequential bool
	flagWatchSeed       int
	flagWatchFPS        int
)

var watchCmd = &cobra.Command{
	Use:   "watch <env>",
	Short: "Drive an environment interactively",
	Long: `Watch and drive the specified environment in the terminal.

Controls:
  Arrows/WASD - Move
  Space       - Special action
  R           - Force reset
  P           - Pause
  Q/Ctrl+C    - Quit

Examples:
  pixelgym watch fruitbot
  pixelgym watch maze --distribution memory
  pixelgym watch fruitbot --seed 42 --fps 30
  pixelgym watch fruitbot --config ./my-fruitbot.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchConfig, "config", "", "Path to custom environment config YAML")
	watchCmd.Flags().StringVar(&flagWatchDist, "distribution", "", "Distribution mode: easy, hard, extreme, memory")
	watchCmd.Flags().BoolVar(&flagWatchSequential, "sequential", false, "Chain levels sequentially into one episode")
	watchCmd.Flags().IntVar(&flagWatchSeed, "seed", 0, "Level selection seed (0 = time-based)")
	watchCmd.Flags().IntVar(&flagWatchFPS, "fps", 15, "Steps per second")
}

func runWatch(cmd *cobra.Command, args []string) {
	env := args[0]

	if !registry.Exists(env) {
		fmt.Fprintf(os.Stderr, "Error: unknown environment %q\n", env)
		fmt.Fprintln(os.Stderr, "Run 'pixelgym list' to see available environments.")
		os.Exit(1)
	}

	cfg, err := config.Load(env, flagWatchConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cmd.Flags().Changed("distribution") {
		cfg.DistributionMode = flagWatchDist
	}
	if cmd.Flags().Changed("sequential") {
		cfg.UseSequentialLevels = flagWatchSequential
	}
	if cmd.Flags().Changed("seed") {
		cfg.RandSeed = flagWatchSeed
	} else if cfg.RandSeed == 0 {
		cfg.RandSeed = int(time.Now().UnixNano())
	}

	opts, err := cfg.OptionSet()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rules, err := registry.Create(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating environment: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(env, rules, opts, render.NewFlat(), flagRes, flagRes)

	// Terminal size for layout decisions
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episodes database: %v\n", err)
		// Continue without storage - playback still works
		store = nil
	}

	runErr := tui.Run(eng, store, tui.WatchConfig{
		Env:      env,
		TickRate: flagWatchFPS,
		Width:    width,
		Height:   height,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
}
