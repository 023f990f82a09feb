package main

import (
	"os"
	"strconv"
	"time"

	"github.com/voodooEntity/noumenon/src/system/core"
)

// loadConfig starts from core.DefaultConfig() and overlays a handful of
// NOUMENON_-prefixed env var overrides — this overlay is the demo
// binary's concern only, never the library's.
func loadConfig() core.Config {
	cfg := core.DefaultConfig()

	if v, ok := envInt64("NOUMENON_MAX_AF"); ok {
		cfg.ECAN.MaxAF = v
	}
	if v, ok := envFloat("NOUMENON_DECAY_RATE"); ok {
		cfg.ECAN.DecayRate = v
	}
	if v, ok := envFloat("NOUMENON_MIN_CONFIDENCE"); ok {
		cfg.PLN.MinConfidence = v
	}
	if v, ok := envInt("NOUMENON_MAX_CONCURRENT_JOBS"); ok {
		cfg.Scheduler.MaxConcurrentJobs = v
	}
	if v, ok := envDuration("NOUMENON_CYCLE_INTERVAL"); ok {
		cfg.Scheduler.CycleInterval = v
	}
	if v, ok := envFloat("NOUMENON_STIMULATE_RATE"); ok {
		cfg.StimulateRatePerSecond = v
	}
	if v, ok := envInt("NOUMENON_STIMULATE_BURST"); ok {
		cfg.StimulateBurst = v
	}

	return cfg
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envInt64(key string) (int64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envDuration(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}
