package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config captures the cloak configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	APIAddr      string `yaml:"api_addr" toml:"api_addr"`
	AuthToken    string `yaml:"auth_token" toml:"auth_token"`
	OutputDir    string `yaml:"output_dir" toml:"output_dir"`
	RecipesDir   string `yaml:"recipes_dir" toml:"recipes_dir"`
	DefaultShift int    `yaml:"default_shift" toml:"default_shift"`
}

// Default returns the built-in cloak configuration.
func Default() Config {
	recipesDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		recipesDir = filepath.Join(home, ".cloak", "recipes")
	}
	return Config{
		APIAddr:      "127.0.0.1:8710",
		AuthToken:    "",
		OutputDir:    ".",
		RecipesDir:   recipesDir,
		DefaultShift: 3,
	}
}

// Load resolves the cloak configuration using defaults, configuration files,
// and environment overrides. The lookup order for configuration files is:
//  1. ~/.cloak/config.toml (TOML)
//  2. ./cloak.yml (YAML)
//
// Environment variables prefixed with CLOAK_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}

	path := filepath.Join(home, ".cloak", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, "toml"); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	path := filepath.Join(wd, "cloak.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, "yaml"); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type fileConfig struct {
	APIAddr      *string
	AuthToken    *string
	OutputDir    *string
	RecipesDir   *string
	DefaultShift *int
}

func applyFileConfig(cfg *Config, data []byte, format string) error {
	var fc fileConfig
	var err error
	switch format {
	case "yaml":
		fc, err = parseFlat(data, ":")
	case "toml":
		fc, err = parseFlat(data, "=")
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return err
	}

	if fc.APIAddr != nil {
		cfg.APIAddr = strings.TrimSpace(*fc.APIAddr)
	}
	if fc.AuthToken != nil {
		cfg.AuthToken = strings.TrimSpace(*fc.AuthToken)
	}
	if fc.OutputDir != nil {
		cfg.OutputDir = strings.TrimSpace(*fc.OutputDir)
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = strings.TrimSpace(*fc.RecipesDir)
	}
	if fc.DefaultShift != nil {
		cfg.DefaultShift = *fc.DefaultShift
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if val := strings.TrimSpace(os.Getenv("CLOAK_API_ADDR")); val != "" {
		cfg.APIAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("CLOAK_AUTH_TOKEN")); val != "" {
		cfg.AuthToken = val
	}
	if val := strings.TrimSpace(os.Getenv("CLOAK_OUT")); val != "" {
		cfg.OutputDir = val
	}
	if val := strings.TrimSpace(os.Getenv("CLOAK_RECIPES")); val != "" {
		cfg.RecipesDir = val
	}
	if val := strings.TrimSpace(os.Getenv("CLOAK_DEFAULT_SHIFT")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.DefaultShift = parsed
		}
	}
}

// parseFlat handles the flat subset of YAML and TOML that cloak config files
// use: key/value pairs, comments, and quoted strings. The separator is ":"
// for YAML and "=" for TOML.
func parseFlat(data []byte, sep string) (fileConfig, error) {
	lines := strings.Split(string(data), "\n")
	var fc fileConfig
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		parts := strings.SplitN(trimmed, sep, 2)
		if len(parts) != 2 {
			return fileConfig{}, fmt.Errorf("invalid config line: %q", trimmed)
		}
		key := strings.TrimSpace(parts[0])
		value := trimQuotes(strings.TrimSpace(parts[1]))
		switch key {
		case "api_addr":
			fc.APIAddr = &value
		case "auth_token":
			fc.AuthToken = &value
		case "output_dir":
			fc.OutputDir = &value
		case "recipes_dir":
			fc.RecipesDir = &value
		case "default_shift":
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fileConfig{}, fmt.Errorf("invalid default_shift: %q", value)
			}
			fc.DefaultShift = &parsed
		default:
			// ignore unknown keys
		}
	}
	return fc, nil
}

func trimQuotes(val string) string {
	if len(val) >= 2 {
		if (strings.HasPrefix(val, "\"") && strings.HasSuffix(val, "\"")) ||
			(strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'")) {
			return val[1 : len(val)-1]
		}
	}
	return val
}
