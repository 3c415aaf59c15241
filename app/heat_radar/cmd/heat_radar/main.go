package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor"
	advfactory "github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor/factory"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/config"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/engine"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/logger"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/report"
	srcfactory "github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source/factory"
)

func main() {
	var (
		flagconf     string
		flagLocality string
		flagPDF      string
	)
	flag.StringVar(&flagconf, "conf", "app/heat_radar/configs/config.yaml", "config path")
	flag.StringVar(&flagLocality, "locality", "", "locality for the detail section (default: first named record)")
	flag.StringVar(&flagPDF, "pdf", "", "also write the PDF report to this path")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Init logging
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger.Log.Info("starting heat radar report run...")

	ctx := context.Background()

	// 3. Build the analysis source and mitigation advisor
	src, err := srcfactory.NewSource(cfg)
	if err != nil {
		logger.Log.Fatalf("source init failed: %v", err)
	}
	adv, err := advfactory.NewAdvisor(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("advisor init failed: %v", err)
	}

	city := cfg.API.City
	if city == "" {
		city = "Pune"
	}

	// 4. Fetch the snapshot. The backend recomputes satellite statistics on
	// demand; this can take tens of seconds.
	fetchCtx := ctx
	if cfg.API.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.API.Timeout)*time.Second)
		defer cancel()
	}
	logger.Log.Infof("fetching live analysis for %s...", city)
	analysis, err := src.Fetch(fetchCtx, city)
	if err != nil {
		logger.Log.Fatalf("analysis fetch failed: %v", err)
	}
	logger.Log.Infof("received %d locality records", len(analysis.Records))

	// 5. Derive the city-wide view model
	opts := engineOptions(cfg)
	vm := engine.Derive(analysis, model.Scope{}, opts)

	// 6. Pick the detail record and ask the advisor for actions
	detail := pickDetail(analysis.Records, flagLocality)
	var mitigations []string
	if detail != nil {
		mitigations, err = adv.Mitigations(ctx, *detail)
		if err != nil {
			logger.Log.Errorf("mitigation advisor failed: %v", err)
		}
	} else if flagLocality != "" {
		logger.Log.Warnf("locality [%s] not found in snapshot", flagLocality)
	}

	// 7. Console report
	if err := report.WriteText(os.Stdout, analysis, vm, detail, mitigations); err != nil {
		logger.Log.Fatalf("report output failed: %v", err)
	}

	// 8. Optional PDF
	if flagPDF != "" {
		summary, err := adv.CitySummary(ctx, citySummaryContext(analysis, vm))
		if err != nil {
			logger.Log.Errorf("city summary failed: %v", err)
		}
		pdf, err := report.BuildCityPDF(analysis, vm, detail, mitigations, summary)
		if err != nil {
			logger.Log.Fatalf("pdf render failed: %v", err)
		}
		if err := os.WriteFile(flagPDF, pdf, 0o644); err != nil {
			logger.Log.Fatalf("pdf write failed: %v", err)
		}
		fmt.Printf("\nReport saved to %s\n", flagPDF)
	}
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

func citySummaryContext(a *model.Analysis, vm *model.ViewModel) advisor.CitySummaryContext {
	names := make([]string, 0, 5)
	for _, e := range a.Rankings.LeastLivable {
		if len(names) == 5 {
			break
		}
		names = append(names, e.Locality)
	}
	return advisor.CitySummaryContext{
		City:              a.City,
		AvgRisk:           vm.KPIs.AvgRisk,
		TotalPeopleAtRisk: vm.KPIs.TotalPeopleAtRisk,
		HighRiskNames:     names,
	}
}

// pickDetail selects the requested locality, or the first named record as a
// sample when none was asked for.
func pickDetail(records []model.LocalityRecord, locality string) *model.LocalityRecord {
	for i := range records {
		if locality != "" {
			if records[i].Locality == locality {
				return &records[i]
			}
			continue
		}
		if records[i].Locality != "" && records[i].Locality != "Unknown" {
			return &records[i]
		}
	}
	return nil
}
