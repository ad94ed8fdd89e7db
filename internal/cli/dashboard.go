// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-bench/internal/dashboard"
	"github.com/alvinbaena/pwd-bench/internal/render"
	"github.com/alvinbaena/pwd-bench/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Show the weather, a random fact and recent GitHub activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dashboardCommand(cmd.Context())
		},
	}
)

func init() {
	dashboardCmd.Flags().DurationVar(&refreshEvery, "refresh", 0, "Refresh the dashboard at this interval until ^C. 0 shows it once")
	dashboardCmd.Flags().StringVarP(&outputFormat, "format", "f", string(render.Text), "Output format: text, json or yaml")

	rootCmd.AddCommand(dashboardCmd)
}

func dashboardCommand(ctx context.Context) error {
	cfg, state, format, err := setup()
	if err != nil {
		return err
	}

	dash, err := dashboard.New(dashboard.Config{
		Latitude:   cfg.Weather.Latitude,
		Longitude:  cfg.Weather.Longitude,
		GitHubUser: cfg.GitHub.User,
		CacheTTL:   cfg.Cache.TTL,
		RetryMax:   cfg.HTTP.RetryMax,
		Timeout:    cfg.HTTP.Timeout,
	})
	if err != nil {
		return err
	}
	defer dash.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = showDashboard(ctx, dash, state, format); err != nil || refreshEvery <= 0 {
		return err
	}

	ticker := time.NewTicker(refreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Goodbye")
			return nil
		case <-ticker.C:
			if err = showDashboard(ctx, dash, state, format); err != nil {
				return err
			}
		}
	}
}

func showDashboard(ctx context.Context, dash *dashboard.Dashboard, state *session.State, format render.Format) error {
	snap, err := dash.Refresh(ctx)
	if errors.Is(err, dashboard.ErrSuperseded) || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}

	for panel, msg := range snap.Errors {
		log.Warn().Msgf("%s panel failed: %s", panel, msg)
	}

	if format != render.Text {
		return render.Encode(os.Stdout, format, snap)
	}

	fmt.Println(render.StylesFor(state.Theme()).Dashboard(snap, time.Now()))
	return nil
}
