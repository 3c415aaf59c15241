package factory

import (
	"fmt"
	"time"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/config"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/snapfile"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/uhiapi"
)

// NewSource builds the configured snapshot provider.
func NewSource(cfg *config.Config) (source.Source, error) {
	provider := cfg.Source.Provider
	if provider == "" {
		if cfg.Source.File != "" {
			provider = "file"
		} else {
			provider = "http"
		}
	}

	switch provider {
	case "http":
		timeout := time.Duration(cfg.API.Timeout) * time.Second
		return uhiapi.NewClient(cfg.API.BaseURL, timeout), nil

	case "file":
		if cfg.Source.File == "" {
			return nil, fmt.Errorf("snapshot file path is missing")
		}
		return snapfile.New(cfg.Source.File), nil

	default:
		return nil, fmt.Errorf("unknown source provider: %s", provider)
	}
}
