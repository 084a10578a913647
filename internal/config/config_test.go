package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsInvalidWithoutInventoryURL(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected default config to fail validation without inventory.database_url")
	}
}

func TestValidateRejectsDeadlineNotLessThanCycleInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inventory.DatabaseURL = "postgres://x/y"
	cfg.Probing.Deadline = cfg.Probing.CycleInterval

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when deadline >= cycle_interval")
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inventory.DatabaseURL = "postgres://x/y"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestLoadFromFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "inventory:\n  database_url: postgres://x/y\nprobing:\n  max_parallel: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Inventory.DatabaseURL != "postgres://x/y" {
		t.Errorf("unexpected database url: %s", cfg.Inventory.DatabaseURL)
	}
	if cfg.Probing.MaxParallel != 10 {
		t.Errorf("unexpected max_parallel: %d", cfg.Probing.MaxParallel)
	}
	// Fields absent from the file should retain their defaults.
	if cfg.Probing.CycleInterval != 5*time.Second {
		t.Errorf("expected default cycle interval to survive, got %v", cfg.Probing.CycleInterval)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("FLEETWATCH_INVENTORY_DATABASE_URL", "postgres://env/db")
	t.Setenv("FLEETWATCH_NOTIFY_GROUP_IDS", `["g1","g2"]`)
	t.Setenv("FLEETWATCH_DATA_DIR", "/tmp/fleetwatch-data")

	cfg.ApplyEnvOverrides()

	if cfg.Inventory.DatabaseURL != "postgres://env/db" {
		t.Errorf("unexpected database url: %s", cfg.Inventory.DatabaseURL)
	}
	if len(cfg.Notify.GroupIDs) != 2 || cfg.Notify.GroupIDs[0] != "g1" {
		t.Errorf("unexpected group ids: %v", cfg.Notify.GroupIDs)
	}
	if cfg.DataDir != "/tmp/fleetwatch-data" {
		t.Errorf("unexpected data dir: %s", cfg.DataDir)
	}
}
