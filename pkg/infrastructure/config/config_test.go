package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != filepath.Join(".cpq", "cpq.db") {
		t.Errorf("expected default database path, got %s", cfg.Database.Path)
	}
	if cfg.OutsideOrder() != entities.OutsideBySelection {
		t.Errorf("expected selection order, got %s", cfg.OutsideOrder())
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpq.yaml")
	content := `database:
  path: /tmp/catalog.db
logging:
  level: debug
  format: json
catalog:
  outside_order: catalog
  apply_standard_cards: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CPQ_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/catalog.db" {
		t.Errorf("expected file database path, got %s", cfg.Database.Path)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override for level, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" || !cfg.Catalog.ApplyStandardCards {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.OutsideOrder() != entities.OutsideByCatalog {
		t.Errorf("expected catalog order, got %s", cfg.OutsideOrder())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty database", func(c *Config) { c.Database.Path = " " }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad outside order", func(c *Config) { c.Catalog.OutsideOrder = "random" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cpq.yaml")
	cfg := Default()
	cfg.Database.Path = ":memory:"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Database.Path != ":memory:" {
		t.Errorf("expected :memory:, got %s", loaded.Database.Path)
	}
}

// testChdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
