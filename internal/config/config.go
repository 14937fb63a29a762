// SPDX-License-Identifier: Apache-2.0

// Package config loads the evidence-mcp configuration file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/goccy/go-yaml"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
	"github.com/gemaraproj/evidence-mcp/internal/evidence"
)

// EnvConfigPath names the config file when no path is given explicitly.
const EnvConfigPath = "EVIDENCE_MCP_CONFIG"

// DefaultPath is tried when neither a flag nor EnvConfigPath is set.
const DefaultPath = "evidence-mcp.yaml"

//go:embed schema.cue
var schemaSource string

// ErrInvalidConfig wraps every schema and range violation found while loading.
var ErrInvalidConfig = errors.New("invalid configuration")

type LogConfig struct {
	Level    string `json:"level" yaml:"level"`
	Encoding string `json:"encoding" yaml:"encoding"`
}

// Config is the root configuration structure.
type Config struct {
	Chunking chunking.Config        `json:"chunking" yaml:"chunking"`
	Scoring  evidence.ScoringConfig `json:"scoring" yaml:"scoring"`
	// CurrentYear drives recency scoring. Zero means the year the process
	// started in.
	CurrentYear int       `json:"current_year" yaml:"current_year"`
	Log         LogConfig `json:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunking: chunking.DefaultConfig(),
		Scoring:  evidence.DefaultScoringConfig(),
		Log:      LogConfig{Level: "info", Encoding: "console"},
	}
}

// Load reads a config from path. If the file does not exist, returns defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data over the defaults, checks it against the
// embedded schema and then runs the component validators.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := checkSchema(raw); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve picks the config path: the explicit one, then EnvConfigPath, then
// DefaultPath.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultPath
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate runs the chunking and scoring validators.
func (c *Config) Validate() error {
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.CurrentYear < 0 {
		return fmt.Errorf("%w: current_year must not be negative, got %d", ErrInvalidConfig, c.CurrentYear)
	}
	return nil
}

// Year returns CurrentYear, or the year of now when it is unset.
func (c *Config) Year(now time.Time) int {
	if c.CurrentYear > 0 {
		return c.CurrentYear
	}
	return now.Year()
}

func checkSchema(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
