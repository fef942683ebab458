// Package config loads the YAML run configuration for the hostsched
// demo harness, following the Config/yaml-tag pattern used throughout
// this codebase's own config loaders.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HostPin statically assigns a named host to a worker id at startup,
// mirroring SchedulerPolicy's AddHost(host, preferredWorker) option.
type HostPin struct {
	Host   string `yaml:"host"`
	Worker int64  `yaml:"worker"`
}

// RunConfig configures a run of the hostsched demo harness.
type RunConfig struct {
	// Workers is the number of worker goroutines in the pool.
	Workers int `yaml:"workers"`
	// Hosts is the number of synthetic hosts to create when Pins is
	// empty; hosts are round-robin assigned across Workers.
	Hosts int `yaml:"hosts"`
	// EventsPerHost is how many synthetic events to seed per host.
	EventsPerHost int `yaml:"events_per_host"`
	// RoundDuration is the barrier step, in nanoseconds, used between
	// rounds by the demo harness's outer loop.
	RoundDuration uint64 `yaml:"round_duration_ns"`
	// Rounds is how many barrier rounds the demo harness advances
	// through before stopping.
	Rounds int `yaml:"rounds"`
	// StartEpoch is added to simulation time to produce emulated
	// time, in nanoseconds since Unix epoch by convention.
	StartEpoch uint64 `yaml:"start_epoch_ns"`
	// Pins optionally overrides round-robin host assignment.
	Pins []HostPin `yaml:"pins"`
	// LogLevel is a logrus level name (trace, debug, info, warn,
	// error, fatal, panic).
	LogLevel string `yaml:"log_level"`
	// MetricsAddr, if non-empty, is the address the demo harness
	// serves /metrics on (e.g. ":9090"). Empty disables the server.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns a RunConfig with the same defaults the CLI flags
// fall back to when no config file is given.
func Default() RunConfig {
	return RunConfig{
		Workers:       4,
		Hosts:         8,
		EventsPerHost: 10,
		RoundDuration: 1_000_000, // 1ms of simulated time per round
		Rounds:        20,
		StartEpoch:    0,
		LogLevel:      "info",
	}
}

// Load reads and parses a RunConfig from path, starting from Default()
// so a partial YAML file only needs to specify the fields it overrides.
func Load(path string) (RunConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the demo harness cannot run.
func (c RunConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be > 0, got %d", c.Workers)
	}
	if c.Hosts <= 0 && len(c.Pins) == 0 {
		return fmt.Errorf("config: hosts must be > 0 unless pins are given")
	}
	if c.RoundDuration == 0 {
		return fmt.Errorf("config: round_duration_ns must be > 0")
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("config: rounds must be > 0, got %d", c.Rounds)
	}
	return nil
}
