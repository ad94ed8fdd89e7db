package api

import (
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
)

type strengthRequest struct {
	// A pointer so that the empty password is accepted but a missing field is not.
	Password *string `json:"password" binding:"required,max=1024"`
}

type strengthResponse struct {
	ID         string            `json:"id"`
	Backend    string            `json:"backend"`
	Fallback   bool              `json:"fallback"`
	Degraded   bool              `json:"degraded"`
	Consistent bool              `json:"consistent"`
	Result     strength.Result   `json:"result"`
	Reference  strength.Result   `json:"reference"`
	Zxcvbn     *backend.Estimate `json:"zxcvbn,omitempty"`
}

type benchmarkRequest struct {
	Password     *string `json:"password" binding:"required,max=1024"`
	Rounds       *int    `json:"rounds" binding:"omitempty,min=1,max=1000"`
	WarmupRounds *int    `json:"warmupRounds" binding:"omitempty,min=0,max=100"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Degraded bool   `json:"degraded"`
}
