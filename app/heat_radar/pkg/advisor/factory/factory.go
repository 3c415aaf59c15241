package factory

import (
	"context"
	"fmt"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor/llm"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/config"
)

// NewAdvisor builds the configured mitigation advisor. Without an API key
// the static rule set is used.
func NewAdvisor(ctx context.Context, cfg *config.Config) (advisor.Advisor, error) {
	provider := cfg.Advisor.Provider
	if provider == "" {
		if cfg.LLM.APIKey != "" {
			provider = "llm"
		} else {
			provider = "static"
		}
	}

	switch provider {
	case "llm":
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("llm advisor requires an api key")
		}
		return llm.New(ctx, cfg)

	case "static":
		return advisor.NewStatic(), nil

	default:
		return nil, fmt.Errorf("unknown advisor provider: %s", provider)
	}
}
