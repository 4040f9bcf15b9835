package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelgym/internal/config"
	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/registry"
	"github.com/vovakirdan/pixelgym/internal/rng"
	"github.com/vovakirdan/pixelgym/internal/storage"
)

var (
	flagRunEpisodes   int
	flagRunConfig     string
	flagRunDist       string
	flagRunSequential bool
	flagRunSeed       int
	flagRunStartLevel int
	flagRunNumLevels  int
	flagRunPolicySeed int
	flagRunNoRecord   bool
	flagSnapshotIn    string
	flagSnapshotOut   string
)

var runCmd = &cobra.Command{
	Use:   "run <env>",
	Short: "Run headless rollouts with a random policy",
	Long: `Run the specified environment headless for a number of episodes,
logging and recording each episode's outcome.

Rollouts are fully deterministic: the same seed, level range, and
policy seed reproduce the same episodes byte for byte.

Examples:
  pixelgym run fruitbot
  pixelgym run fruitbot --episodes 100 --seed 42
  pixelgym run maze --distribution memory --levels 500
  pixelgym run fruitbot --sequential --snapshot-out state.bin
  pixelgym run fruitbot --snapshot-in state.bin --episodes 5`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagRunEpisodes, "episodes", 10, "Number of episodes to run")
	runCmd.Flags().StringVar(&flagRunConfig, "config", "", "Path to custom environment config YAML")
	runCmd.Flags().StringVar(&flagRunDist, "distribution", "", "Distribution mode: easy, hard, extreme, memory")
	runCmd.Flags().BoolVar(&flagRunSequential, "sequential", false, "Chain levels sequentially into one episode")
	runCmd.Flags().IntVar(&flagRunSeed, "seed", 0, "Level selection seed")
	runCmd.Flags().IntVar(&flagRunStartLevel, "start-level", 0, "First level seed in the range")
	runCmd.Flags().IntVar(&flagRunNumLevels, "levels", 0, "Number of level seeds to draw from (0 = unlimited)")
	runCmd.Flags().IntVar(&flagRunPolicySeed, "policy-seed", 0, "Seed for the random action policy")
	runCmd.Flags().BoolVar(&flagRunNoRecord, "no-record", false, "Do not record episodes to the database")
	runCmd.Flags().StringVar(&flagSnapshotIn, "snapshot-in", "", "Restore engine state from this file before running")
	runCmd.Flags().StringVar(&flagSnapshotOut, "snapshot-out", "", "Write engine state to this file after running")
}

func runRun(cmd *cobra.Command, args []string) {
	env := args[0]
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pixelgym",
	})

	if !registry.Exists(env) {
		fmt.Fprintf(os.Stderr, "Error: unknown environment %q\n", env)
		fmt.Fprintln(os.Stderr, "Run 'pixelgym list' to see available environments.")
		os.Exit(1)
	}

	cfg, err := config.Load(env, flagRunConfig)
	if err != nil {
		logger.Fatal("cannot load config", "error", err)
	}

	// Flags override the loaded config where set.
	if cmd.Flags().Changed("distribution") {
		cfg.DistributionMode = flagRunDist
	}
	if cmd.Flags().Changed("sequential") {
		cfg.UseSequentialLevels = flagRunSequential
	}
	if cmd.Flags().Changed("seed") {
		cfg.RandSeed = flagRunSeed
	}
	if cmd.Flags().Changed("start-level") {
		cfg.StartLevel = flagRunStartLevel
	}
	if cmd.Flags().Changed("levels") {
		cfg.NumLevels = flagRunNumLevels
	}

	opts, err := cfg.OptionSet()
	if err != nil {
		logger.Fatal("bad config", "error", err)
	}

	rules, err := registry.Create(env)
	if err != nil {
		logger.Fatal("cannot create environment", "error", err)
	}

	// Headless: no renderer, info-only observations.
	eng := engine.New(env, rules, opts, nil, flagRes, flagRes)

	var store *storage.Store
	if !flagRunNoRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open episodes database", "error", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	if flagSnapshotIn != "" {
		snap, readErr := os.ReadFile(flagSnapshotIn)
		if readErr != nil {
			logger.Fatal("cannot read snapshot", "path", flagSnapshotIn, "error", readErr)
		}
		eng.Restore(snap)
		logger.Info("restored snapshot", "path", flagSnapshotIn, "seed", eng.CurrentLevelSeed, "step", eng.CurTime)
	} else {
		eng.Reset()
	}

	policy := rng.New(int32(flagRunPolicySeed))
	obs := engine.NewStandardObservation(flagRes, flagRes)

	logger.Info("starting rollout",
		"env", env,
		"episodes", flagRunEpisodes,
		"distribution", cfg.DistributionMode,
		"seed", cfg.RandSeed,
		"sequential", cfg.UseSequentialLevels,
	)

	var (
		episodeSteps  int32
		episodeReward float64
		totalReward   float64
		completedRuns int
	)

	for done := 0; done < flagRunEpisodes; {
		// Actions 0..8 are moves, 9 is the first special action.
		eng.Step(int32(policy.RandN(10)), obs)
		episodeSteps++
		episodeReward += float64(*obs.Reward)

		if *obs.First != 1 {
			continue
		}

		completed := eng.StepData.LevelComplete
		logger.Info("episode finished",
			"env", env,
			"seed", eng.PrevLevelSeed,
			"steps", episodeSteps,
			"reward", episodeReward,
			"completed", completed,
		)

		if store != nil {
			if _, saveErr := store.SaveEpisode(env, eng.PrevLevelSeed, episodeSteps, episodeReward, completed); saveErr != nil {
				logger.Warn("could not record episode", "error", saveErr)
			}
		}

		totalReward += episodeReward
		if completed {
			completedRuns++
		}
		done++
		episodeSteps = 0
		episodeReward = 0
	}

	logger.Info("rollout complete",
		"episodes", flagRunEpisodes,
		"mean_reward", totalReward/float64(flagRunEpisodes),
		"completed", completedRuns,
	)

	if flagSnapshotOut != "" {
		if writeErr := os.WriteFile(flagSnapshotOut, eng.Snapshot(), 0o644); writeErr != nil {
			logger.Fatal("cannot write snapshot", "path", flagSnapshotOut, "error", writeErr)
		}
		logger.Info("wrote snapshot", "path", flagSnapshotOut)
	}
}
