// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package bench

import (
	"github.com/rs/zerolog/log"
	"time"
)

// status reports harness progress one stage at a time.
type status struct {
	stageName  *string
	workCount  int
	doneCount  int
	start      time.Time
	stageStart time.Time
}

func newStatus() *status {
	return &status{start: time.Now()}
}

func (s *status) Stage(stage string) {
	s.FinishStage()

	s.stageName = &stage
	log.Debug().Msgf("%s starting...", *s.stageName)

	s.stageStart = time.Now()
	s.doneCount = 0
}

func (s *status) StageWork(name string, work int) {
	s.Stage(name)
	s.workCount = work
}

func (s *status) Round(elapsedMs float64) {
	s.doneCount++
	log.Debug().Msgf("%s: round %d of %d took %.3f ms", *s.stageName, s.doneCount, s.workCount, elapsedMs)
}

func (s *status) FinishStage() {
	if s.stageName != nil && *s.stageName != "" {
		log.Debug().Msgf("%s complete in %v", *s.stageName, time.Since(s.stageStart))
	}

	none := ""
	s.stageName = &none
}

func (s *status) Done() time.Duration {
	s.FinishStage()
	elapsed := time.Since(s.start)
	log.Debug().Msgf("benchmark complete in %v", elapsed)
	return elapsed
}
