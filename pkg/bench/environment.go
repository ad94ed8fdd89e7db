// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package bench

import (
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"runtime"
)

// Environment describes the machine a benchmark ran on.
type Environment struct {
	GoVersion       string `json:"goVersion" yaml:"goVersion"`
	OS              string `json:"os" yaml:"os"`
	Arch            string `json:"arch" yaml:"arch"`
	GoMaxProcs      int    `json:"gomaxprocs" yaml:"gomaxprocs"`
	CPUModel        string `json:"cpuModel,omitempty" yaml:"cpuModel,omitempty"`
	LogicalCPUs     int    `json:"logicalCpus,omitempty" yaml:"logicalCpus,omitempty"`
	TotalMemory     uint64 `json:"totalMemory,omitempty" yaml:"totalMemory,omitempty"`
	AvailableMemory uint64 `json:"availableMemory,omitempty" yaml:"availableMemory,omitempty"`
}

// CollectEnvironment never fails; host details that cannot be read are left empty.
func CollectEnvironment() *Environment {
	env := &Environment{
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		GoMaxProcs: runtime.GOMAXPROCS(0),
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		env.CPUModel = infos[0].ModelName
	} else if err != nil {
		log.Debug().Err(err).Msg("error reading CPU information")
	}

	if count, err := cpu.Counts(true); err == nil {
		env.LogicalCPUs = count
	} else {
		log.Debug().Err(err).Msg("error reading CPU count")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		env.TotalMemory = vm.Total
		env.AvailableMemory = vm.Available
	} else {
		log.Debug().Err(err).Msg("error reading memory information")
	}

	return env
}
