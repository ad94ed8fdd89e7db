// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/pwd-bench/internal/config"
	"github.com/alvinbaena/pwd-bench/internal/render"
	"github.com/alvinbaena/pwd-bench/internal/session"
	"github.com/alvinbaena/pwd-bench/internal/util"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwdbench [COMMAND] [OPTIONS]",
		Short: "Score passwords and benchmark the scoring backends",
		Long: "Score password strength with a reference and an accelerated backend, compare how fast each of " +
			"them is, and show a small dashboard with the weather, a random fact and recent GitHub activity.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", string(session.Dark), "Colour theme of the terminal output, dark or light")
}

func Execute() error {
	return rootCmd.Execute()
}

// setup applies the global flags and loads the environment configuration.
func setup() (config.Config, *session.State, render.Format, error) {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, "", err
	}

	theme, err := session.ParseTheme(themeName)
	if err != nil {
		return config.Config{}, nil, "", err
	}

	format, err := render.ParseFormat(outputFormat)
	if err != nil {
		return config.Config{}, nil, "", err
	}

	return cfg, session.NewState(theme), format, nil
}
