// Package project maps derived view models and raw records onto the exact
// shapes the table, report and PDF renderers expect. The ordering, rounding
// and truncation rules here must stay stable for output parity.
package project

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

// Placeholder rendered for a missing numeric value.
const Placeholder = "--"

// Risk level cutoffs for the mitigation table.
const (
	levelHighCutoff   = 75
	levelMediumCutoff = 50
)

var popPrinter = message.NewPrinter(language.English)

// TableRow is one line of the full data table, pre-formatted for display.
type TableRow struct {
	Locality     string `json:"locality"`
	Risk         string `json:"risk"`
	FutureRisk   string `json:"future_risk"`
	GreenDeficit string `json:"green_deficit"`
	Resilience   string `json:"resilience"`
}

// TableRows projects the full record set into report rows, sorted
// alphabetically by locality. A missing locality sorts first and renders as
// Unknown; names are truncated to 30 characters to fit the column.
func TableRows(records []model.LocalityRecord) []TableRow {
	sorted := make([]model.LocalityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Locality < sorted[j].Locality
	})

	rows := make([]TableRow, 0, len(sorted))
	for i := range sorted {
		r := &sorted[i]
		name := r.Locality
		if name == "" {
			name = "Unknown"
		}
		rows = append(rows, TableRow{
			Locality:     truncate(name, 30),
			Risk:         FormatMetric(r.Risk, 1),
			FutureRisk:   FormatMetric(r.FutureRisk3M, 1),
			GreenDeficit: FormatMetric(r.GreenDeficit, 1),
			Resilience:   FormatMetric(r.ResilienceScore, 1),
		})
	}
	return rows
}

// FormatMetric renders an optional score with a fixed decimal count, or the
// placeholder when the value is absent.
func FormatMetric(v *float64, decimals int) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// FormatGreenDeficit clamps upstream noise below zero before rendering;
// negative deficits are a measurement artifact, not a real surplus.
func FormatGreenDeficit(v *float64) string {
	if v == nil {
		return Placeholder
	}
	d := *v
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.2f", d)
}

// Population renders a people count with locale thousands separators.
func Population(n int64) string {
	return popPrinter.Sprintf("%d", n)
}

// KPIStrings is the KPI card block, fully formatted.
type KPIStrings struct {
	Risk         string `json:"risk"`
	GreenDeficit string `json:"green_deficit"`
	Population   string `json:"population"`
	Resilience   string `json:"resilience"`
	Temperature  string `json:"temperature"`
}

// FormatKPIs renders a KPI set for display. An invalid set (empty scoped
// record set with no fallback) renders as N/A across the board.
func FormatKPIs(k model.KPISet) KPIStrings {
	if !k.Valid {
		return KPIStrings{Risk: "N/A", GreenDeficit: "N/A", Population: "N/A", Resilience: "N/A", Temperature: "N/A"}
	}
	return KPIStrings{
		Risk:         fmt.Sprintf("%.2f", k.AvgRisk),
		GreenDeficit: fmt.Sprintf("%.2f%%", k.AvgGreenDeficit),
		Population:   Population(k.TotalPeopleAtRisk),
		Resilience:   fmt.Sprintf("%.2f", k.AvgResilience),
		Temperature:  fmt.Sprintf("%.1f°C", k.EstimatedTemp),
	}
}

// RiskLevel labels a score for the mitigation table.
func RiskLevel(score float64) string {
	switch {
	case score >= levelHighCutoff:
		return "High"
	case score >= levelMediumCutoff:
		return "Medium"
	default:
		return "Low"
	}
}

// RankedRow is one row of the high-risk mitigation table.
type RankedRow struct {
	Rank     int    `json:"rank"`
	Locality string `json:"locality"`
	Risk     int    `json:"risk"`
	Level    string `json:"level"`
}

// RankedRows numbers the least-livable ranking in backend order and labels
// each entry with its risk level.
func RankedRows(entries []model.RankingEntry) []RankedRow {
	rows := make([]RankedRow, 0, len(entries))
	for i, e := range entries {
		name := e.Locality
		if name == "" {
			name = "Unknown"
		}
		risk := 0.0
		if e.Risk != nil {
			risk = *e.Risk
		}
		rows = append(rows, RankedRow{
			Rank:     i + 1,
			Locality: name,
			Risk:     int(risk + 0.5),
			Level:    RiskLevel(risk),
		})
	}
	return rows
}

// FilterRanked narrows the mitigation table by a case-insensitive substring
// match on the locality and an optional risk level ("All" keeps everything).
func FilterRanked(rows []RankedRow, search, level string) []RankedRow {
	q := strings.ToLower(search)
	out := make([]RankedRow, 0, len(rows))
	for _, row := range rows {
		if q != "" && !strings.Contains(strings.ToLower(row.Locality), q) {
			continue
		}
		if level != "" && level != "All" && row.Level != level {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FilterLocalities is the dropdown search: a linear, case-insensitive
// substring scan over the injected locality directory.
func FilterLocalities(directory []string, q string) []string {
	needle := strings.ToLower(q)
	out := make([]string, 0, len(directory))
	for _, l := range directory {
		if strings.Contains(strings.ToLower(l), needle) {
			out = append(out, l)
		}
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
