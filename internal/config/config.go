// Package config loads and validates structdoc's workspace configuration,
// stored at <workspace>/.structdoc/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WorkspaceConfig holds the two path-resolution roots: the
// current project's base directory (preferred) and the workspace root
// (fallback).
type WorkspaceConfig struct {
	// Root is the workspace root, used when no project base dir is set.
	Root string `yaml:"root"`

	// ProjectBaseDir is the current session's project directory, when
	// known. Empty means "unknown"; the facade then falls back to Root.
	ProjectBaseDir string `yaml:"project_base_dir,omitempty"`

	// UnsafePrefixes lists resolved-path prefixes that targetFile may
	// never resolve under. Defaults to a fixed system-path list if left
	// empty.
	UnsafePrefixes []string `yaml:"unsafe_prefixes,omitempty"`
}

// MatchingConfig tunes content-match resolution.
type MatchingConfig struct {
	// FuzzyThreshold is the minimum Jaccard bigram similarity for a
	// "did you mean" hint to be offered.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// LoggingConfig mirrors internal/logging's on-disk shape so both packages
// can load the same file without an import cycle.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
	Level      string          `yaml:"level,omitempty"`
	JSONFormat bool            `yaml:"json_format,omitempty"`
}

// Config is the full on-disk configuration document.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Matching  MatchingConfig  `yaml:"matching"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DefaultUnsafePrefixes lists system directories a target file may never
// resolve under.
var DefaultUnsafePrefixes = []string{"/etc", "/bin", "/sbin", "/usr/bin", "/root"}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{FuzzyThreshold: 0.5},
		Logging:  LoggingConfig{DebugMode: false, Level: "info"},
	}
}

// Load reads and validates the config at path. A missing file yields
// DefaultConfig with Workspace.Root set to the given fallback root, not an
// error: most callers (including the CLI) run against workspaces that
// have never written a config file.
func Load(path, fallbackRoot string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Workspace.Root = fallbackRoot

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = fallbackRoot
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets a small, explicit set of environment variables
// override file-backed settings without a full flag/env binding library.
func (c *Config) applyEnvOverrides() {
	if root := os.Getenv("STRUCTDOC_PROJECT_DIR"); root != "" {
		c.Workspace.ProjectBaseDir = root
	}
	if v := os.Getenv("STRUCTDOC_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

func (c *Config) applyDefaults() {
	if c.Matching.FuzzyThreshold == 0 {
		c.Matching.FuzzyThreshold = 0.5
	}
	if len(c.Workspace.UnsafePrefixes) == 0 {
		c.Workspace.UnsafePrefixes = append([]string{}, DefaultUnsafePrefixes...)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks invariants that can't be auto-corrected.
func (c *Config) Validate() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 1 {
		return fmt.Errorf("matching.fuzzy_threshold must be in [0,1], got %v", c.Matching.FuzzyThreshold)
	}
	return nil
}

// ResolveBaseDir picks the relative-path resolution root: project base
// dir first, workspace root as fallback, ErrNoWorkspace if neither.
func (c *Config) ResolveBaseDir() (string, error) {
	if c.Workspace.ProjectBaseDir != "" {
		return c.Workspace.ProjectBaseDir, nil
	}
	if c.Workspace.Root != "" {
		return c.Workspace.Root, nil
	}
	return "", ErrNoWorkspace
}
