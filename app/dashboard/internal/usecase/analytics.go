package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/repo"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/engine"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/project"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/report"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source"
)

// ErrLocalityNotFound is returned for a forecast on a locality absent from
// the current snapshot.
var ErrLocalityNotFound = errors.New("locality not found in current snapshot")

// Deps bundles the analytics pipeline pieces assembled from configuration.
type Deps struct {
	Source    source.Source
	Advisor   advisor.Advisor
	Engine    engine.Options
	City      string
	Directory []string
}

// AnalyticsUseCase holds one analysis snapshot per process and serves every
// read from it. A snapshot is replaced wholesale by Refresh, never patched.
type AnalyticsUseCase struct {
	deps *Deps
	runs repo.RunRepo
	log  *log.Helper

	mu        sync.RWMutex
	snapshot  *model.Analysis
	fetchedAt time.Time
}

func NewAnalyticsUseCase(deps *Deps, runs repo.RunRepo, logger log.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{deps: deps, runs: runs, log: log.NewHelper(logger)}
}

// DashboardView is the full dashboard payload for one scope.
type DashboardView struct {
	City  string             `json:"city"`
	KPIs  project.KPIStrings `json:"kpis"`
	View  *model.ViewModel   `json:"view"`
	Table []project.TableRow `json:"table"`
}

// ForecastView is the single-locality outlook payload.
type ForecastView struct {
	Record      model.LocalityRecord `json:"record"`
	Level       string               `json:"level"`
	Mitigations []string             `json:"mitigations"`
}

// StatusView reports snapshot freshness.
type StatusView struct {
	City        string               `json:"city"`
	HasSnapshot bool                 `json:"has_snapshot"`
	Records     int                  `json:"records"`
	FetchedAt   time.Time            `json:"fetched_at,omitempty"`
	RecentRuns  []*domain.RunSummary `json:"recent_runs,omitempty"`
}

// Refresh fetches a new snapshot from the backend and swaps it in. The run
// log insert is best effort.
func (uc *AnalyticsUseCase) Refresh(ctx context.Context) (*model.Analysis, error) {
	a, err := uc.deps.Source.Fetch(ctx, uc.deps.City)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.snapshot = a
	uc.fetchedAt = time.Now()
	uc.mu.Unlock()

	vm := engine.Derive(a, model.Scope{}, uc.deps.Engine)
	if err := uc.runs.SaveRun(ctx, &domain.RunSummary{
		City:       a.City,
		Localities: len(a.Records),
		AvgRisk:    vm.KPIs.AvgRisk,
	}); err != nil {
		uc.log.Warnf("run log insert failed: %v", err)
	}
	uc.log.Infof("snapshot refreshed: %d records for %s", len(a.Records), a.City)
	return a, nil
}

// current returns the held snapshot, fetching one on first use.
func (uc *AnalyticsUseCase) current(ctx context.Context) (*model.Analysis, error) {
	uc.mu.RLock()
	a := uc.snapshot
	uc.mu.RUnlock()
	if a != nil {
		return a, nil
	}
	return uc.Refresh(ctx)
}

// Dashboard derives the view model for the requested locality scope.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, locality string) (*DashboardView, error) {
	a, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	vm := engine.Derive(a, model.Scope{Locality: locality}, uc.deps.Engine)
	return &DashboardView{
		City:  a.City,
		KPIs:  project.FormatKPIs(vm.KPIs),
		View:  vm,
		Table: project.TableRows(a.Records),
	}, nil
}

// Forecast returns the detail record and mitigation actions for one
// locality.
func (uc *AnalyticsUseCase) Forecast(ctx context.Context, locality string) (*ForecastView, error) {
	a, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := findRecord(a.Records, locality)
	if !ok {
		return nil, ErrLocalityNotFound
	}

	actions, err := uc.deps.Advisor.Mitigations(ctx, *rec)
	if err != nil {
		// Advisor failure must never block the forecast itself.
		uc.log.Errorf("mitigation advisor failed for [%s]: %v", locality, err)
		actions = advisor.CallFallback(rec.Locality)
	}
	return &ForecastView{
		Record:      *rec,
		Level:       project.RiskLevel(rec.RiskOrZero()),
		Mitigations: actions,
	}, nil
}

// MitigationTable returns the ranked high-risk table, optionally narrowed
// by a search term and a risk level.
func (uc *AnalyticsUseCase) MitigationTable(ctx context.Context, search, level string) ([]project.RankedRow, error) {
	a, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	return project.FilterRanked(project.RankedRows(a.Rankings.LeastLivable), search, level), nil
}

// Localities serves the search dropdown: the configured directory when one
// is set, otherwise the distinct names in the snapshot.
func (uc *AnalyticsUseCase) Localities(ctx context.Context, q string) ([]string, error) {
	directory := uc.deps.Directory
	if len(directory) == 0 {
		a, err := uc.current(ctx)
		if err != nil {
			return nil, err
		}
		directory = report.AvailableLocalities(a.Records)
	}
	return project.FilterLocalities(directory, q), nil
}

// ReportPDF renders the downloadable city report, with an optional
// locality summary section.
func (uc *AnalyticsUseCase) ReportPDF(ctx context.Context, locality string) ([]byte, error) {
	a, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	vm := engine.Derive(a, model.Scope{}, uc.deps.Engine)

	var detail *model.LocalityRecord
	var mitigations []string
	if locality != "" {
		rec, ok := findRecord(a.Records, locality)
		if !ok {
			return nil, ErrLocalityNotFound
		}
		detail = rec
		mitigations, err = uc.deps.Advisor.Mitigations(ctx, *rec)
		if err != nil {
			uc.log.Errorf("mitigation advisor failed for [%s]: %v", locality, err)
			mitigations = advisor.CallFallback(rec.Locality)
		}
	}

	summary, err := uc.deps.Advisor.CitySummary(ctx, advisor.CitySummaryContext{
		City:              a.City,
		AvgRisk:           vm.KPIs.AvgRisk,
		TotalPeopleAtRisk: vm.KPIs.TotalPeopleAtRisk,
		HighRiskNames:     leastLivableNames(a.Rankings.LeastLivable, 5),
	})
	if err != nil {
		uc.log.Errorf("city summary advisor failed: %v", err)
		summary = ""
	}

	return report.BuildCityPDF(a, vm, detail, mitigations, summary)
}

// Status reports snapshot freshness plus the recent run log when a
// database is attached.
func (uc *AnalyticsUseCase) Status(ctx context.Context) *StatusView {
	uc.mu.RLock()
	a := uc.snapshot
	fetchedAt := uc.fetchedAt
	uc.mu.RUnlock()

	st := &StatusView{City: uc.deps.City}
	if a != nil {
		st.HasSnapshot = true
		st.City = a.City
		st.Records = len(a.Records)
		st.FetchedAt = fetchedAt
	}
	runs, err := uc.runs.ListRuns(ctx, 10)
	if err != nil {
		uc.log.Warnf("run log query failed: %v", err)
	} else {
		st.RecentRuns = runs
	}
	return st
}

func findRecord(records []model.LocalityRecord, locality string) (*model.LocalityRecord, bool) {
	for i := range records {
		if records[i].Locality == locality {
			return &records[i], true
		}
	}
	return nil, false
}

func leastLivableNames(entries []model.RankingEntry, n int) []string {
	names := make([]string, 0, n)
	for _, e := range entries {
		if len(names) == n {
			break
		}
		names = append(names, e.Locality)
	}
	return names
}
