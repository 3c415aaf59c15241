package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/project"
)

// WriteText emits the console rendition of the city report. The detail
// record and its mitigations are optional.
func WriteText(w io.Writer, a *model.Analysis, vm *model.ViewModel, detail *model.LocalityRecord, mitigations []string) error {
	var b strings.Builder

	b.WriteString("================ SMART HEAT RISK REPORT ================\n")

	b.WriteString("\n=========== AVAILABLE LOCALITIES ===========\n")
	for i, loc := range AvailableLocalities(a.Records) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, loc)
	}

	fmt.Fprintf(&b, "\nTOP 10 MOST LIVABLE LOCALITIES IN %s:\n", strings.ToUpper(a.City))
	writeRanking(&b, a.Rankings.MostLivable)

	fmt.Fprintf(&b, "\nTOP 10 LEAST LIVABLE LOCALITIES IN %s:\n", strings.ToUpper(a.City))
	writeRanking(&b, a.Rankings.LeastLivable)

	b.WriteString("\n=========== CITY-WIDE METRICS ===========\n")
	kpis := project.FormatKPIs(vm.KPIs)
	fmt.Fprintf(&b, "Average Heat Risk:      %s\n", kpis.Risk)
	fmt.Fprintf(&b, "Average Green Deficit:  %s\n", kpis.GreenDeficit)
	fmt.Fprintf(&b, "Estimated Ambient Temp: %s\n", kpis.Temperature)
	fmt.Fprintf(&b, "People at Risk:         %s\n", kpis.Population)
	fmt.Fprintf(&b, "Critical Zones:         %d\n", len(vm.CriticalZones))

	if detail != nil {
		b.WriteString("\n================ SMART CITY REPORT ================\n\n")
		fmt.Fprintf(&b, "Location Point: %s\n", detail.Locality)
		fmt.Fprintf(&b, "\nHeat Risk Score: %s /100\n", project.FormatMetric(detail.Risk, 2))
		fmt.Fprintf(&b, "Green Deficit: %s\n", project.FormatGreenDeficit(detail.GreenDeficit))
		fmt.Fprintf(&b, "Cooling Potential: %s\n", project.FormatMetric(detail.CoolingPotential, 2))
		fmt.Fprintf(&b, "People at Risk (est): %s\n", project.Population(detail.PeopleAtRisk))
		fmt.Fprintf(&b, "Future Risk (3 months): %s\n", project.FormatMetric(detail.FutureRisk3M, 2))

		if detail.EarlyWarning {
			b.WriteString("EARLY WARNING: High Risk Trend Detected!\n")
		}

		b.WriteString("\nMain Statistical Drivers mapping to Risk:\n")
		for _, d := range detail.TopDrivers {
			fmt.Fprintf(&b, "   - %s\n", d)
		}

		b.WriteString("\nAI Recommended Interventions for this Coordinate:\n\n")
		for _, m := range mitigations {
			fmt.Fprintf(&b, "   - %s\n", m)
		}

		fmt.Fprintf(&b, "\nUrban Resilience Score: %s\n", project.FormatMetric(detail.ResilienceScore, 2))
	}

	b.WriteString("\n===================================================\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRanking(b *strings.Builder, entries []model.RankingEntry) {
	if len(entries) > 10 {
		entries = entries[:10]
	}
	for i, e := range entries {
		fmt.Fprintf(b, "  %d. %s (Livability Index: %s)\n", i+1, e.Locality, project.FormatMetric(e.LivabilityIndex, 2))
	}
}

// AvailableLocalities returns the distinct named localities in the
// snapshot, sorted. Unnamed points are left out.
func AvailableLocalities(records []model.LocalityRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var names []string
	for _, rec := range records {
		if rec.Locality == "" || rec.Locality == "Unknown" {
			continue
		}
		if _, ok := seen[rec.Locality]; ok {
			continue
		}
		seen[rec.Locality] = struct{}{}
		names = append(names, rec.Locality)
	}
	sort.Strings(names)
	return names
}
