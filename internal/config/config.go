package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level banksort.yaml configuration.
type Config struct {
	Locale         LocaleConfig         `yaml:"locale"`
	Categorization CategorizationConfig `yaml:"categorization"`
	Classifier     ClassifierConfig     `yaml:"classifier"`
	Reconcile      ReconcileConfig      `yaml:"reconcile"`
	PnL            PnLConfig            `yaml:"pnl"`
}

// LocaleConfig sets the conventions used when no bank profile decides them.
type LocaleConfig struct {
	// DateOrder is "day-first", "month-first", or "year-first".
	DateOrder string `yaml:"date_order"`
	// Grouping is "lakh" or "thousand".
	Grouping string `yaml:"grouping"`
	Currency string `yaml:"currency"`
}

// CategorizationConfig controls the categorization pipeline.
type CategorizationConfig struct {
	// Threshold is the minimum classifier confidence accepted without
	// manual review.
	Threshold float64 `yaml:"threshold"`
	// RulesPath points to the custom rules YAML document.
	RulesPath string `yaml:"rules_path,omitempty"`
	// Classify enables the external classifier fallback.
	Classify bool `yaml:"classify"`
}

// ClassifierConfig tunes the external classifier.
type ClassifierConfig struct {
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`
}

// ReconcileConfig controls balance verification.
type ReconcileConfig struct {
	// Tolerance is the allowed drift between the replayed and stated
	// balances, as a decimal string.
	Tolerance string `yaml:"tolerance"`
}

// PnLConfig controls P&L page identification.
type PnLConfig struct {
	MinScore float64 `yaml:"min_score"`
}

// Load reads a banksort.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the defaults for Indian statements.
func Default() *Config {
	return &Config{
		Locale: LocaleConfig{
			DateOrder: "day-first",
			Grouping:  "lakh",
			Currency:  "INR",
		},
		Categorization: CategorizationConfig{
			Threshold: 0.8,
			Classify:  true,
		},
		Classifier: ClassifierConfig{
			Model:          "gemini-2.5-flash",
			TimeoutSeconds: 60,
			Retries:        2,
		},
		Reconcile: ReconcileConfig{
			Tolerance: "0.01",
		},
		PnL: PnLConfig{
			MinScore: 3.0,
		},
	}
}
