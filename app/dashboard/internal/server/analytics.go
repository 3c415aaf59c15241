package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/conf"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/usecase"
	advfactory "github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor/factory"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/config"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/engine"
	hrLogger "github.com/urbanpulse/heat_radar/app/heat_radar/pkg/logger"
	srcfactory "github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source/factory"
)

// NewAnalyticsDeps assembles the analytics pipeline from the dashboard
// configuration.
func NewAnalyticsDeps(c *conf.Analytics, logger log.Logger) (*usecase.Deps, error) {
	helper := log.NewHelper(logger)

	// Map internal/conf.Analytics onto pkg/config.Config.
	cfg := &config.Config{}
	if c.Api != nil {
		cfg.API = config.APIConfig{
			BaseURL: c.Api.BaseUrl,
			City:    c.Api.City,
			Timeout: int(c.Api.Timeout),
		}
	}
	if c.Source != nil {
		cfg.Source = config.SourceConfig{
			Provider: c.Source.Provider,
			File:     c.Source.File,
		}
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if c.Advisor != nil {
		cfg.Advisor = config.AdvisorConfig{Provider: c.Advisor.Provider}
	}
	if c.Scope != nil {
		cfg.Scope = config.ScopeConfig{
			CityAliases:   c.Scope.CityAliases,
			EmptyFallback: c.Scope.EmptyFallback,
		}
	}
	cfg.Localities = c.Localities
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}

	if err := hrLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("failed to init analytics logger: %v", err)
		_ = hrLogger.InitLogger("info", "")
	}

	src, err := srcfactory.NewSource(cfg)
	if err != nil {
		helper.Errorf("failed to init analysis source: %v", err)
		return nil, err
	}

	adv, err := advfactory.NewAdvisor(context.Background(), cfg)
	if err != nil {
		helper.Errorf("failed to init mitigation advisor: %v", err)
		return nil, err
	}

	city := cfg.API.City
	if city == "" {
		city = "Pune"
	}

	return &usecase.Deps{
		Source:    src,
		Advisor:   adv,
		Engine:    engineOptions(cfg),
		City:      city,
		Directory: cfg.Localities,
	}, nil
}

func engineOptions(cfg *config.Config) engine.Options {
	opts := engine.DefaultOptions()
	if len(cfg.Scope.CityAliases) > 0 {
		opts.CityAliases = cfg.Scope.CityAliases
	}
	if cfg.Scope.EmptyFallback == "none" {
		opts.EmptyScopeToCity = false
	}
	return opts
}
