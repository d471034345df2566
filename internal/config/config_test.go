package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	if err := os.Mkdir(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cloakDir := filepath.Join(homeDir, ".cloak")
	if err := os.Mkdir(cloakDir, 0o755); err != nil {
		t.Fatalf("mkdir .cloak: %v", err)
	}
	tomlConfig := []byte(`api_addr = "0.0.0.0:1111"
output_dir = "/custom"
default_shift = 7
`)
	if err := os.WriteFile(filepath.Join(cloakDir, "config.toml"), tomlConfig, 0o644); err != nil {
		t.Fatalf("write toml config: %v", err)
	}

	// Provide a local YAML config overriding the TOML file.
	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	yamlConfig := []byte(`api_addr: 127.0.0.1:6500
recipes_dir: /work/recipes
`)
	if err := os.WriteFile(filepath.Join(workDir, "cloak.yml"), yamlConfig, 0o644); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	// Ensure env overrides beat file configuration.
	t.Setenv("CLOAK_AUTH_TOKEN", "env-token")
	t.Setenv("CLOAK_RECIPES", "/env/recipes")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer func() {
		_ = os.Chdir(cwd)
	}()
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.APIAddr != "127.0.0.1:6500" {
		t.Fatalf("unexpected api addr: %s", cfg.APIAddr)
	}
	if cfg.OutputDir != "/custom" {
		t.Fatalf("expected TOML output dir, got %s", cfg.OutputDir)
	}
	if cfg.DefaultShift != 7 {
		t.Fatalf("expected TOML default shift, got %d", cfg.DefaultShift)
	}
	if cfg.RecipesDir != "/env/recipes" {
		t.Fatalf("expected env override for recipes dir, got %s", cfg.RecipesDir)
	}
	if cfg.AuthToken != "env-token" {
		t.Fatalf("expected env token override, got %s", cfg.AuthToken)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	t.Setenv("CLOAK_AUTH_TOKEN", "")
	t.Setenv("CLOAK_API_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	defaults := Default()
	if cfg != defaults {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadIgnoresInvalidShiftEnv(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	t.Setenv("CLOAK_DEFAULT_SHIFT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DefaultShift != Default().DefaultShift {
		t.Fatalf("invalid env shift should be ignored, got %d", cfg.DefaultShift)
	}
}

func TestLoadRejectsBadConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	cloakDir := filepath.Join(homeDir, ".cloak")
	if err := os.MkdirAll(cloakDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Setenv("HOME", homeDir)

	bad := []byte(`default_shift = "three"`)
	if err := os.WriteFile(filepath.Join(cloakDir, "config.toml"), bad, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid default_shift")
	}
}
