// Package report renders the comprehensive city report as PDF or console
// text. Section order and the page-break rule are part of the output
// contract and must not change.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/project"
)

const (
	marginX    = 20.0
	pageBreakY = 270.0
	lineH      = 6.0
)

// table column x offsets for the full data table.
var tableCols = []float64{20, 90, 110, 135, 160}

var tableHeaders = []string{"Locality", "Risk", "Proj (3mo)", "Grn Def%", "Resilience"}

// BuildCityPDF renders the full city report: optional locality summary,
// city-wide KPIs, both top-10 rankings, the complete alphabetical data
// table (paginated), and the strategic summary page.
func BuildCityPDF(a *model.Analysis, vm *model.ViewModel, detail *model.LocalityRecord, mitigations []string, citySummary string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	y := 20.0

	pdf.SetFont("Helvetica", "B", 18)
	centerText(pdf, y, tr(fmt.Sprintf("SMART HEAT RISK REPORT - %s", strings.ToUpper(a.City))))

	if detail != nil {
		y = localitySection(pdf, tr, y, detail, mitigations)
		pdf.AddPage()
		y = 20
	}

	// City-wide metrics.
	pdf.SetFont("Helvetica", "B", 18)
	centerText(pdf, y, "CITY-WIDE AGGREGATED METRICS")
	y += 15

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(marginX, y, fmt.Sprintf("City-Wide Average Risk Score: %.1f / 100", vm.KPIs.AvgRisk))
	y += lineH
	pdf.Text(marginX, y, fmt.Sprintf("Total Estimated Vulnerable Population: %s", project.Population(vm.KPIs.TotalPeopleAtRisk)))
	y += 12

	y = rankingSection(pdf, tr, y, "Top 10 Most Livable Localities:", a.Rankings.MostLivable)
	y += 10
	rankingSection(pdf, tr, y, "Top 10 High Risk Localities:", a.Rankings.LeastLivable)

	// Complete data table, alphabetical, paginated.
	pdf.AddPage()
	y = 20
	pdf.SetFont("Helvetica", "B", 16)
	centerText(pdf, y, "Complete Locality Data")
	y += 15

	y = tableHeader(pdf, y)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range project.TableRows(a.Records) {
		if y > pageBreakY {
			pdf.AddPage()
			y = tableHeader(pdf, 20)
			pdf.SetFont("Helvetica", "", 10)
		}
		cells := []string{tr(row.Locality), row.Risk, row.FutureRisk, row.GreenDeficit, row.Resilience}
		for i, cell := range cells {
			pdf.Text(tableCols[i], y, cell)
		}
		y += lineH
	}

	// Strategic summary page.
	pdf.AddPage()
	y = 20
	pdf.SetFont("Helvetica", "B", 16)
	centerText(pdf, y, "AI City-Wide Strategic Summary")
	y += 15

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range pdf.SplitText(tr(citySummary), 170) {
		if y > pageBreakY {
			pdf.AddPage()
			y = 20
		}
		pdf.Text(marginX, y, line)
		y += lineH
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// localitySection writes the single-locality summary block with the metric
// guidance lines in muted grey under each figure.
func localitySection(pdf *fpdf.Fpdf, tr func(string) string, y float64, detail *model.LocalityRecord, mitigations []string) float64 {
	y += 15
	pdf.SetFont("Helvetica", "B", 16)
	centerText(pdf, y, "================ LOCALITY SUMMARY ================")
	y += 12

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginX, y, tr(fmt.Sprintf("Locality: %s", detail.Locality)))
	y += 10

	y = metricWithGuide(pdf, y,
		fmt.Sprintf("Heat Risk Score: %s", project.FormatMetric(detail.Risk, 2)),
		"Optimal: < 30 | Moderate: 30 - 60 | High: > 60")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginX, y, "Main Heat Drivers:")
	pdf.SetFont("Helvetica", "", 12)
	for _, d := range detail.TopDrivers {
		y += 5
		pdf.Text(marginX, y, tr(fmt.Sprintf("   - %s", d)))
	}
	y += 8

	y = metricWithGuide(pdf, y,
		fmt.Sprintf("Green Deficit: %s %%", project.FormatGreenDeficit(detail.GreenDeficit)),
		"Optimal: < 20 | Concerning: 20 - 40 | Critical: > 40")
	y = metricWithGuide(pdf, y,
		fmt.Sprintf("Cooling Potential: %s %%", project.FormatMetric(detail.CoolingPotential, 2)),
		"Optimal: > 60 | Concerning: 30 - 60 | Critical: < 30")
	y = metricWithGuide(pdf, y,
		fmt.Sprintf("People at Risk: %s persons", project.Population(detail.PeopleAtRisk)),
		"Optimal: < 500 | Concerning: 500 - 2000 | Critical: > 2000")
	y = metricWithGuide(pdf, y,
		fmt.Sprintf("Future Risk (3 months): %s", project.FormatMetric(detail.FutureRisk3M, 2)),
		"Optimal: < 40 | Concerning: 40 - 70 | Critical: > 70")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginX, y, fmt.Sprintf("Urban Resilience Score: %s", project.FormatMetric(detail.ResilienceScore, 2)))
	y += 10

	pdf.Text(marginX, y, "AI-Recommended Mitigation Actions:")
	pdf.SetFont("Helvetica", "", 12)
	for _, m := range mitigations {
		y += lineH
		lines := pdf.SplitText(tr(fmt.Sprintf("- %s", m)), 170)
		for j, line := range lines {
			pdf.Text(marginX, y+float64(j)*lineH, line)
		}
		y += float64(len(lines)-1) * lineH
	}
	return y
}

func metricWithGuide(pdf *fpdf.Fpdf, y float64, value, guide string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginX, y, value)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	y += 5
	pdf.Text(marginX, y, "   "+guide)
	pdf.SetTextColor(0, 0, 0)
	return y + 8
}

func rankingSection(pdf *fpdf.Fpdf, tr func(string) string, y float64, title string, entries []model.RankingEntry) float64 {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginX, y, title)
	y += 8

	pdf.SetFont("Helvetica", "", 11)
	if len(entries) > 10 {
		entries = entries[:10]
	}
	for i, e := range entries {
		pdf.Text(marginX+5, y, tr(fmt.Sprintf("%d. %s (Livability Index: %s)", i+1, e.Locality, project.FormatMetric(e.LivabilityIndex, 2))))
		y += lineH
	}
	return y
}

func tableHeader(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range tableHeaders {
		pdf.Text(tableCols[i], y, h)
	}
	y += 5
	pdf.Line(marginX, y, 190, y)
	return y + 7
}

func centerText(pdf *fpdf.Fpdf, y float64, s string) {
	pageW, _ := pdf.GetPageSize()
	pdf.Text((pageW-pdf.GetStringWidth(s))/2, y, s)
}
