// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-bench/internal/render"
	"github.com/alvinbaena/pwd-bench/internal/session"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"os"
	"strings"
)

const themeCommand = ":theme"

var (
	analyzeCmd = &cobra.Command{
		Use:   "analyze [password]",
		Short: "Score the strength of a password",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				// Dummy string
				return analyzeCommand(cmd.Context(), "")
			} else {
				return analyzeCommand(cmd.Context(), args[0])
			}
		},
	}
)

func init() {
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "n", false,
		fmt.Sprintf("Interactive mode. Type %s to switch the colour theme.", themeCommand))
	analyzeCmd.Flags().BoolVarP(&withBench, "bench", "b", false, "Also benchmark both backends with the password")
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", string(render.Text), "Output format: text, json or yaml")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzer holds what one analyze session needs. Scores are printed right away; benchmarks
// run in the background, one at a time, and only the one for the latest password is printed.
type analyzer struct {
	runner  *backend.Runner
	harness *bench.Harness
	state   *session.State
	format  render.Format
	tracker session.Tracker
	// running is closed when the background benchmark exits.
	running chan struct{}
}

func analyzeCommand(ctx context.Context, password string) error {
	cfg, state, format, err := setup()
	if err != nil {
		return err
	}

	a := &analyzer{
		runner:  backend.NewRunner(backend.LoadAccelerated),
		harness: bench.NewHarness(cfg.HarnessConfig()),
		state:   state,
		format:  format,
	}
	if err = a.runner.Load(); err != nil {
		log.Warn().Msg("running in reference-only mode")
	}

	if !interactive {
		if err = a.analyze(password); err != nil {
			return err
		}
		if withBench {
			return a.benchmark(ctx, password)
		}
		return nil
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}

	log.Info().Msgf("Running interactive session. %s switches the theme, ^C to exit", themeCommand)
	if err = a.runInteractiveSession(ctx, prompt); err != nil {
		if err.Error() == "^C" || err.Error() == "^D" {
			log.Info().Msgf("Goodbye")
		} else {
			log.Error().Err(err).Msgf("Error during interactive session")
		}
		// No return to avoid the default cobra error message
		return nil
	}

	return nil
}

func (a *analyzer) runInteractiveSession(ctx context.Context, prompt promptui.Prompt) error {
	defer a.waitBenchmark()
	defer a.tracker.Cancel()

	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		if strings.TrimSpace(result) == themeCommand {
			log.Info().Msgf("theme is now %s", a.state.Toggle())
			continue
		}

		if err = a.analyze(result); err != nil {
			log.Error().Err(err).Msg("Error analysing password")
			continue
		}

		if withBench {
			a.startBenchmark(ctx, result)
		}
	}
}

// startBenchmark supersedes the background benchmark, waits until it has exited so that
// timings never overlap, and starts a new one for password.
func (a *analyzer) startBenchmark(ctx context.Context, password string) {
	ticket, benchCtx := a.tracker.Begin(ctx)
	a.waitBenchmark()

	done := make(chan struct{})
	a.running = done
	go func() {
		defer close(done)
		defer ticket.Done()
		_ = a.benchmarkFor(benchCtx, ticket, password)
	}()
}

func (a *analyzer) waitBenchmark() {
	if a.running != nil {
		<-a.running
	}
}

func (a *analyzer) analyze(password string) error {
	cmp, err := a.runner.Compare(password)
	if err != nil {
		return err
	}

	if a.format != render.Text {
		return render.Encode(os.Stdout, a.format, cmp)
	}

	fmt.Println(render.StylesFor(a.state.Theme()).Comparison(cmp))
	return nil
}

func (a *analyzer) benchmark(ctx context.Context, password string) error {
	ticket, ctx := a.tracker.Begin(ctx)
	defer ticket.Done()
	return a.benchmarkFor(ctx, ticket, password)
}

func (a *analyzer) benchmarkFor(ctx context.Context, ticket *session.Ticket, password string) error {
	ref, acc := a.runner.Backends()
	res, err := a.harness.Compare(ctx, ref, acc, password)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Debug().Msg("benchmark superseded by a newer password")
			return nil
		}
		log.Error().Err(err).Msg("error running benchmark")
		return err
	}

	var printErr error
	ticket.Commit(func() {
		if a.format != render.Text {
			printErr = render.Encode(os.Stdout, a.format, res)
			return
		}
		fmt.Println(render.StylesFor(a.state.Theme()).Benchmark(res))
	})

	return printErr
}
