// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"github.com/alvinbaena/pwd-bench/internal/render"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var (
	benchCmd = &cobra.Command{
		Use:   "bench [password]",
		Short: "Benchmark the reference and accelerated backends with a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchCommand(cmd, args[0])
		},
	}
)

func init() {
	benchCmd.Flags().IntVarP(&rounds, "rounds", "r", 15, "Measured rounds per backend")
	benchCmd.Flags().IntVarP(&warmupRounds, "warmup", "w", 5, "Unmeasured warm-up rounds per backend")
	benchCmd.Flags().IntVarP(&iterations, "iterations", "i", 0,
		"Fixed iterations per round. By default it is derived from the password length")
	benchCmd.Flags().StringVarP(&outputFormat, "format", "f", string(render.Text), "Output format: text, json or yaml")
	benchCmd.Flags().BoolVar(&noGC, "no-gc", false, "Do not request a garbage collection before each round")

	rootCmd.AddCommand(benchCmd)
}

func benchCommand(cmd *cobra.Command, password string) error {
	cfg, state, format, err := setup()
	if err != nil {
		return err
	}

	hc := cfg.HarnessConfig()
	if cmd.Flags().Changed("rounds") {
		hc.Rounds = rounds
	}
	if cmd.Flags().Changed("warmup") {
		hc.WarmupRounds = warmupRounds
	}
	if iterations > 0 {
		hc.MinIterations, hc.MaxIterations = iterations, iterations
	}
	if noGC {
		hc.CollectGarbage = false
	}
	if hc.Rounds < 1 || hc.WarmupRounds < 0 {
		return fmt.Errorf("rounds must be at least 1 and warm-up rounds not negative, got %d and %d", hc.Rounds, hc.WarmupRounds)
	}

	runner := backend.NewRunner(backend.LoadAccelerated)
	if err = runner.Load(); err != nil {
		log.Warn().Msg("accelerated backend unavailable, both sides of the benchmark use the reference backend")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ref, acc := runner.Backends()
	log.Info().Msgf("benchmarking %s against %s, ^C to stop", ref.Name(), acc.Name())
	res, err := bench.NewHarness(hc).Compare(ctx, ref, acc, password)
	if err != nil {
		if ctx.Err() == context.Canceled {
			log.Info().Msg("benchmark cancelled")
			return nil
		}
		return err
	}

	if format != render.Text {
		return render.Encode(os.Stdout, format, res)
	}

	fmt.Println(render.StylesFor(state.Theme()).Benchmark(res))
	return nil
}
