package util

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/iancoleman/strcase"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
	"net/http"
	"runtime"
	"strings"
)

func Stats() func() {
	return func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().Msgf("Alloc: %d MB, TotalAlloc: %d MB, Requested: %d MB",
			ms.Alloc/1024/1024, ms.TotalAlloc/1024/1024, ms.Sys/1024/1024)
		log.Debug().Msgf("Mallocs: %d, Frees: %d, GC: %d", ms.Mallocs, ms.Frees, ms.NumGC)
		log.Debug().Msgf("HeapAlloc: %d MB, HeapSys: %d MB, HeapIdle: %d MB",
			ms.HeapAlloc/1024/1024, ms.HeapSys/1024/1024, ms.HeapIdle/1024/1024)
	}
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("error starting profiling server on port %d", pprofPort)
				return
			}
		}()
	}
}

// CheckMemory warns when less than minFree bytes of RAM are available. Benchmarks
// still run, but swapping and collector pauses will show up in the samples.
func CheckMemory(minFree uint64) bool {
	memStat, err := mem.VirtualMemory()
	if err != nil {
		log.Debug().Err(err).Msgf("error getting current memory usage")
		return true
	}

	log.Debug().Msgf("system has %s of RAM available", humanize.IBytes(memStat.Available))
	if memStat.Available < minFree {
		log.Warn().Msgf("only %s of RAM available, timings will be noisy", humanize.IBytes(memStat.Available))
		return false
	}

	return true
}

// ToScreamingSnakeCase turns a Go field name (or a space separated list of them) into
// the environment variable spelling, e.g. "TLSCert" -> "TLS_CERT".
func ToScreamingSnakeCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strcase.ToScreamingSnake(f)
	}

	return strings.Join(fields, " ")
}
