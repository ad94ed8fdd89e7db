package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Should load defaults: %s", err)
	}

	if cfg.Port != "3100" {
		t.Errorf("Port: %s, want: 3100", cfg.Port)
	}
	if cfg.Bench.Rounds != 15 || cfg.Bench.WarmupRounds != 5 || !cfg.Bench.GC {
		t.Errorf("Unexpected bench defaults: %+v", cfg.Bench)
	}
	if cfg.Cache.TTL != 10*time.Minute || cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("Unexpected durations: %v %v", cfg.Cache.TTL, cfg.HTTP.Timeout)
	}
	if cfg.GitHub.User != "jonasnico" {
		t.Errorf("GitHub user: %s, want: jonasnico", cfg.GitHub.User)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8443")
	t.Setenv("BENCH_ROUNDS", "30")
	t.Setenv("BENCH_SETTLE_MS", "0")
	t.Setenv("BENCH_GC", "false")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Should load: %s", err)
	}

	if cfg.Port != "8443" || cfg.Bench.Rounds != 30 || cfg.Bench.GC || cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Environment should override defaults: %+v", cfg)
	}

	hc := cfg.HarnessConfig()
	if hc.Rounds != 30 || hc.Settle != 0 || hc.CollectGarbage {
		t.Errorf("Harness config should follow the environment: %+v", hc)
	}
	if hc.WarmupIterationCap != 2000 {
		t.Errorf("Harness config should keep the warm-up cap: %d", hc.WarmupIterationCap)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"rounds", map[string]string{"BENCH_ROUNDS": "0"}, "BENCH_ROUNDS"},
		{"iterations", map[string]string{"BENCH_MIN_ITERATIONS": "100", "BENCH_MAX_ITERATIONS": "10"}, "BENCH_MAX_ITERATIONS"},
		{"port", map[string]string{"PORT": "https"}, "PORT"},
		{"tls", map[string]string{"TLS_CERT": "cert.pem"}, "TLS_KEY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("Should fail validation")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Error should name %s: %s", tc.want, err)
			}
		})
	}
}
