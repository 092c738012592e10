package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.yaml")
	content := "project_id: test-project\ndataset: testledger\nextraction_policy: fail_fast\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ProjectID != "test-project" {
		t.Errorf("ProjectID = %q, want test-project", cfg.ProjectID)
	}
	if cfg.Dataset != "testledger" {
		t.Errorf("Dataset = %q, want testledger", cfg.Dataset)
	}
	if cfg.Policy != PolicyFailFast {
		t.Errorf("Policy = %q, want fail_fast", cfg.Policy)
	}
	if cfg.ParsingModel != DefaultParsingModel {
		t.Errorf("ParsingModel = %q, want default %q", cfg.ParsingModel, DefaultParsingModel)
	}
	if cfg.CallTimeout != 2*time.Minute {
		t.Errorf("CallTimeout = %v, want default", cfg.CallTimeout)
	}
	if cfg.MaxToolRounds != DefaultMaxToolRounds {
		t.Errorf("MaxToolRounds = %d, want default %d", cfg.MaxToolRounds, DefaultMaxToolRounds)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LEDGER_PROJECT_ID", "env-project")
	t.Setenv("LEDGER_PARSING_MODEL", "gemini-2.0-flash")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProjectID != "env-project" {
		t.Errorf("ProjectID = %q, want env-project", cfg.ProjectID)
	}
	if cfg.ParsingModel != "gemini-2.0-flash" {
		t.Errorf("ParsingModel = %q, want gemini-2.0-flash", cfg.ParsingModel)
	}
}

func TestLoad_MissingProject(t *testing.T) {
	t.Setenv("LEDGER_PROJECT_ID", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error when project_id is unset")
	}
}

func TestLoad_BadPolicy(t *testing.T) {
	t.Setenv("LEDGER_PROJECT_ID", "p")
	t.Setenv("LEDGER_EXTRACTION_POLICY", "sometimes")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown extraction policy")
	}
}
