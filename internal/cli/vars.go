// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import "time"

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// root
	themeName string
	// analyze
	interactive bool
	// analyze
	withBench bool
	// analyze, bench, dashboard
	outputFormat string
	// bench
	rounds int
	// bench
	warmupRounds int
	// bench
	iterations int
	// bench
	noGC bool
	// dashboard
	refreshEvery time.Duration
	// serve
	selfTLS bool
	// serve
	tlsCert string
	// serve
	tlsKey string
	// serve
	insecure bool
	// serve
	port uint16
)
