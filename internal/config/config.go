package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	// Directory holding the versioned static tables
	// (bindings.yaml, rules.yaml, templates.yaml, outline.yaml).
	ConfigDir string

	// Valuation business constants. Defaults are product sign-off values;
	// both are overridable without a code change.
	BalconyCoefficient float64
	RoundingStep       int64

	// Format of the visible marker for a missing required value.
	// Must contain one %s for the slot id; empty means the built-in default.
	PlaceholderFormat string
}

func Load() Config {
	return Config{
		ConfigDir:          envOr("REPORTGEN_CONFIG_DIR", "config"),
		BalconyCoefficient: envFloat("BALCONY_COEFFICIENT", 0.5),
		RoundingStep:       envInt64("ROUNDING_STEP", 1000),
		PlaceholderFormat:  os.Getenv("PLACEHOLDER_FORMAT"),
	}
}

func (c Config) Validate() error {
	if c.ConfigDir == "" {
		return fmt.Errorf("REPORTGEN_CONFIG_DIR is required")
	}
	if c.BalconyCoefficient < 0 || c.BalconyCoefficient > 1 {
		return fmt.Errorf("BALCONY_COEFFICIENT must be in [0, 1], got %v", c.BalconyCoefficient)
	}
	if c.RoundingStep <= 0 {
		return fmt.Errorf("ROUNDING_STEP must be positive, got %d", c.RoundingStep)
	}
	return nil
}

func (c Config) BindingsPath() string  { return filepath.Join(c.ConfigDir, "bindings.yaml") }
func (c Config) RulesPath() string     { return filepath.Join(c.ConfigDir, "rules.yaml") }
func (c Config) TemplatesPath() string { return filepath.Join(c.ConfigDir, "templates.yaml") }
func (c Config) OutlinePath() string   { return filepath.Join(c.ConfigDir, "outline.yaml") }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
