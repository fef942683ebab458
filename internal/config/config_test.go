package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	path := writeTempConfig(t, "workers: 2\nrounds: 5\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.Rounds != 5 {
		t.Errorf("Rounds = %d, want 5", cfg.Rounds)
	}
	if cfg.Hosts != Default().Hosts {
		t.Errorf("Hosts = %d, want default %d", cfg.Hosts, Default().Hosts)
	}
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load on missing file: expected error, got nil")
	}
}

func TestValidate_RejectsZeroWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate: expected error for zero workers")
	}
}

func TestValidate_AllowsZeroHostsWithPins(t *testing.T) {
	cfg := Default()
	cfg.Hosts = 0
	cfg.Pins = []HostPin{{Host: "h0", Worker: 0}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: unexpected error with pins given: %v", err)
	}
}

func TestValidate_RejectsZeroRoundDuration(t *testing.T) {
	cfg := Default()
	cfg.RoundDuration = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate: expected error for zero round duration")
	}
}
