// Package config loads the run configuration and resolves the run's paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/specsynth/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFilename is the conventional name of the run configuration
	DefaultFilename = "RUN_CONFIG.json"
	// CurrentVersion is written by config init
	CurrentVersion = "1.0"
)

// LoadResult is the outcome of loading a run configuration.
// Config is never nil: on any problem the fallback defaults are returned
// and the problem is recorded in Warnings.
type LoadResult struct {
	Config   *model.RunConfig
	Mode     model.ConfigMode
	Path     string   // File that was read, empty in fallback mode
	Warnings []string // Reasons the run degraded to fallback
}

// Reproducible reports whether the configuration came from a file
func (r *LoadResult) Reproducible() bool {
	return r.Mode == model.ConfigModeReproducible
}

// Discover returns the config file to load: the explicit path (resolved
// against repoRoot when relative), else RUN_CONFIG.json in outDir when it
// exists, else "".
func Discover(explicit, repoRoot, outDir string) string {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			return filepath.Join(repoRoot, explicit)
		}
		return explicit
	}
	if outDir != "" {
		candidate := filepath.Join(outDir, DefaultFilename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load reads the run configuration at path. An empty path, a missing or
// malformed file all degrade to model.DefaultRunConfig.
func Load(path string) *LoadResult {
	fallback := func(warnings ...string) *LoadResult {
		return &LoadResult{
			Config:   model.DefaultRunConfig(),
			Mode:     model.ConfigModeFallback,
			Warnings: warnings,
		}
	}

	if path == "" {
		return fallback()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback(fmt.Sprintf("config file not found: %s", path))
		}
		return fallback(fmt.Sprintf("read config %s: %v", path, err))
	}

	cfg, err := Decode(path, data)
	if err != nil {
		return fallback(fmt.Sprintf("parse config %s: %v", path, err))
	}

	return &LoadResult{
		Config: cfg,
		Mode:   model.ConfigModeReproducible,
		Path:   path,
	}
}

// Decode parses data over the defaults, choosing the format by extension.
// Keys absent from data keep their default value.
func Decode(path string, data []byte) (*model.RunConfig, error) {
	cfg := model.DefaultRunConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	normalize(cfg)
	return cfg, nil
}

// normalize replaces nil collections so renderers never see null
func normalize(cfg *model.RunConfig) {
	if cfg.PrimaryAuthoritySpine == nil {
		cfg.PrimaryAuthoritySpine = []string{}
	}
	if cfg.Exclusions.UltimateDocuments == nil {
		cfg.Exclusions.UltimateDocuments = []string{}
	}
	if cfg.ClusterFilenames == nil {
		cfg.ClusterFilenames = map[string]string{}
	}
}

// Marshal renders cfg as indented JSON, the RUN_CONFIG.json layout
func Marshal(cfg *model.RunConfig) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append(data, '\n'), nil
}
