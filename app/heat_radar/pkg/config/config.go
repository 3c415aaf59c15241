package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full project configuration.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Source      SourceConfig      `yaml:"source"`
	LLM         LLMConfig         `yaml:"llm"`
	Advisor     AdvisorConfig     `yaml:"advisor"`
	Scope       ScopeConfig       `yaml:"scope"`
	Localities  []string          `yaml:"localities"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// APIConfig locates the analysis backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	City    string `yaml:"city"`
	Timeout int    `yaml:"timeout"` // seconds, 0 = no timeout
}

// SourceConfig selects the snapshot provider.
type SourceConfig struct {
	Provider string `yaml:"provider"` // "http" or "file"
	File     string `yaml:"file"`
}

// LLMConfig configures the mitigation advisor model.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// AdvisorConfig selects the mitigation advisor implementation.
type AdvisorConfig struct {
	Provider string `yaml:"provider"` // "llm" or "static"
}

// ScopeConfig controls KPI scope resolution.
type ScopeConfig struct {
	CityAliases []string `yaml:"city_aliases"`
	// EmptyFallback is "citywide" (default, historical behavior: an
	// unmatched locality silently reverts to city-wide averages) or
	// "none" (surface N/A instead).
	EmptyFallback string `yaml:"empty_fallback"`
}

// LogConfig configures log output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig rate-limits outbound LLM calls.
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig configures the optional Postgres store.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig reads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
