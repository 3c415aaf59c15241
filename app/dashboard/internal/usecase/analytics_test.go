package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/engine"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

// mockSource serves a fixed snapshot and counts fetches
type mockSource struct {
	analysis *model.Analysis
	err      error
	calls    int
}

func (m *mockSource) Fetch(ctx context.Context, city string) (*model.Analysis, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

type mockRunRepo struct {
	saved []*domain.RunSummary
}

func (m *mockRunRepo) SaveRun(ctx context.Context, run *domain.RunSummary) error {
	m.saved = append(m.saved, run)
	return nil
}

func (m *mockRunRepo) ListRuns(ctx context.Context, limit int) ([]*domain.RunSummary, error) {
	return m.saved, nil
}

func testAnalysis() *model.Analysis {
	return &model.Analysis{
		City: "Pune",
		Records: []model.LocalityRecord{
			{Locality: "Kothrud", Risk: model.Float(28), PeopleAtRisk: 400},
			{Locality: "Hadapsar", Risk: model.Float(82), FutureRisk3M: model.Float(88), PeopleAtRisk: 2600},
		},
		Rankings: model.Rankings{
			LeastLivable: []model.RankingEntry{
				{Locality: "Hadapsar", LivabilityIndex: model.Float(21.5), Risk: model.Float(82)},
				{Locality: "Kothrud", LivabilityIndex: model.Float(86.1), Risk: model.Float(28)},
			},
		},
	}
}

func newTestUseCase(src *mockSource) (*AnalyticsUseCase, *mockRunRepo) {
	runs := &mockRunRepo{}
	uc := NewAnalyticsUseCase(&Deps{
		Source:  src,
		Advisor: advisor.NewStatic(),
		Engine:  engine.DefaultOptions(),
		City:    "Pune",
	}, runs, log.DefaultLogger)
	return uc, runs
}

func TestAnalyticsUseCase_DashboardLazyFetch(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, runs := newTestUseCase(src)

	view, err := uc.Dashboard(context.Background(), "")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if src.calls != 1 {
		t.Errorf("Fetch calls = %d, want 1", src.calls)
	}
	if view.KPIs.Risk != "55.00" {
		t.Errorf("avg risk = %q, want 55.00", view.KPIs.Risk)
	}
	if len(view.Table) != 2 || view.Table[0].Locality != "Hadapsar" {
		t.Errorf("table not alphabetical: %+v", view.Table)
	}
	if len(runs.saved) != 1 || runs.saved[0].Localities != 2 {
		t.Errorf("run log = %+v, want one entry with 2 localities", runs.saved)
	}

	// Second read serves the held snapshot.
	if _, err := uc.Dashboard(context.Background(), "Kothrud"); err != nil {
		t.Fatalf("Dashboard() second call error = %v", err)
	}
	if src.calls != 1 {
		t.Errorf("Fetch calls after second read = %d, want 1", src.calls)
	}
}

func TestAnalyticsUseCase_DashboardFetchError(t *testing.T) {
	src := &mockSource{err: errors.New("backend unreachable")}
	uc, _ := newTestUseCase(src)

	if _, err := uc.Dashboard(context.Background(), ""); err == nil {
		t.Error("Dashboard() error = nil, want fetch error")
	}
}

func TestAnalyticsUseCase_Forecast(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, _ := newTestUseCase(src)

	view, err := uc.Forecast(context.Background(), "Hadapsar")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if view.Level != "High" {
		t.Errorf("level = %q, want High", view.Level)
	}
	if len(view.Mitigations) != 3 {
		t.Errorf("mitigations = %d, want 3", len(view.Mitigations))
	}

	if _, err := uc.Forecast(context.Background(), "Atlantis"); !errors.Is(err, ErrLocalityNotFound) {
		t.Errorf("Forecast(unknown) error = %v, want ErrLocalityNotFound", err)
	}
}

func TestAnalyticsUseCase_MitigationTable(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, _ := newTestUseCase(src)

	rows, err := uc.MitigationTable(context.Background(), "", "High")
	if err != nil {
		t.Fatalf("MitigationTable() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Locality != "Hadapsar" {
		t.Errorf("rows = %+v, want only Hadapsar", rows)
	}
}

func TestAnalyticsUseCase_LocalitiesFromSnapshot(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, _ := newTestUseCase(src)

	names, err := uc.Localities(context.Background(), "had")
	if err != nil {
		t.Fatalf("Localities() error = %v", err)
	}
	if len(names) != 1 || names[0] != "Hadapsar" {
		t.Errorf("names = %v, want [Hadapsar]", names)
	}
}

func TestAnalyticsUseCase_LocalitiesFromDirectory(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, _ := newTestUseCase(src)
	uc.deps.Directory = []string{"Aundh", "Baner"}

	names, err := uc.Localities(context.Background(), "")
	if err != nil {
		t.Fatalf("Localities() error = %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want the configured directory", names)
	}
	if src.calls != 0 {
		t.Errorf("Fetch calls = %d, directory lookup must not fetch", src.calls)
	}
}

func TestAnalyticsUseCase_Status(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, _ := newTestUseCase(src)

	st := uc.Status(context.Background())
	if st.HasSnapshot {
		t.Error("HasSnapshot = true before any fetch")
	}

	if _, err := uc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	st = uc.Status(context.Background())
	if !st.HasSnapshot || st.Records != 2 {
		t.Errorf("status = %+v, want snapshot with 2 records", st)
	}
}

func TestAnalyticsUseCase_ReportPDF(t *testing.T) {
	src := &mockSource{analysis: testAnalysis()}
	uc, _ := newTestUseCase(src)

	data, err := uc.ReportPDF(context.Background(), "Hadapsar")
	if err != nil {
		t.Fatalf("ReportPDF() error = %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Error("ReportPDF() output is not a PDF")
	}
}
