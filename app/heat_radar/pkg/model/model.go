package model

// LocalityRecord is one observation for a named locality. Numeric fields are
// pointers because a malformed upstream payload may omit any of them; a nil
// value renders as a placeholder and contributes zero to aggregates.
type LocalityRecord struct {
	Locality         string   `json:"locality"`
	Risk             *float64 `json:"risk,omitempty"`
	FutureRisk3M     *float64 `json:"future_risk_3months,omitempty"`
	ResilienceScore  *float64 `json:"resilience_score,omitempty"`
	GreenDeficit     *float64 `json:"green_deficit,omitempty"`
	CoolingPotential *float64 `json:"cooling_potential,omitempty"`
	PeopleAtRisk     int64    `json:"people_at_risk,omitempty"`
	TopDrivers       []string `json:"top_drivers,omitempty"`
	EarlyWarning     bool     `json:"early_warning,omitempty"`
}

// RiskOrZero returns the risk score, treating a missing value as 0.
func (r *LocalityRecord) RiskOrZero() float64 {
	return orZero(r.Risk)
}

// RankingEntry is one row of a backend-ordered livability ranking.
type RankingEntry struct {
	Locality        string   `json:"locality"`
	LivabilityIndex *float64 `json:"livability_index,omitempty"`
	Risk            *float64 `json:"risk,omitempty"`
}

// Rankings carries the two independently ordered ranking sequences. The
// backend order is authoritative and is never re-sorted here.
type Rankings struct {
	MostLivable  []RankingEntry `json:"most_livable"`
	LeastLivable []RankingEntry `json:"least_livable"`
}

// Analysis is one immutable snapshot of the upstream analysis endpoint,
// flattened for convenience: features[].properties becomes Records. A
// snapshot is superseded wholesale by the next fetch, never patched.
type Analysis struct {
	City     string
	Records  []LocalityRecord
	Rankings Rankings
}

// Scope selects the aggregation granularity: city-wide or one locality.
type Scope struct {
	Locality string
}

// CityWide reports whether the scope covers the whole record set.
func (s Scope) CityWide() bool { return s.Locality == "" }

// KPISet holds the scope-narrowed summary figures. Valid is false when the
// scoped record set was empty and no fallback applied; consumers render the
// N/A placeholder in that case.
type KPISet struct {
	Valid             bool    `json:"valid"`
	AvgRisk           float64 `json:"avg_risk"`
	AvgGreenDeficit   float64 `json:"avg_green_deficit"`
	AvgResilience     float64 `json:"avg_resilience"`
	EstimatedTemp     float64 `json:"estimated_temp"`
	TotalPeopleAtRisk int64   `json:"total_people_at_risk"`
}

// RiskBucket is one slice of the city-wide risk histogram.
type RiskBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// LivablePoint is one bar of the top-livable chart series.
type LivablePoint struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Risk  int    `json:"risk"`
}

// TrendPoint is one point of the least-livable trend series. Time is the
// locality name truncated for the axis label.
type TrendPoint struct {
	Time    string `json:"time"`
	Temp    int    `json:"temp"`
	Average int    `json:"average"`
}

// ScatterPoint is one record projected onto the risk/green-deficit plane.
type ScatterPoint struct {
	Risk  int     `json:"risk"`
	Green float64 `json:"green"`
	Area  string  `json:"area"`
	Color string  `json:"color"`
}

// ViewModel is everything one dashboard render needs, derived from a single
// snapshot. Histogram and scatter always reflect the full record set even
// when the KPIs narrow to one locality.
type ViewModel struct {
	Scope         string         `json:"scope"`
	KPIs          KPISet         `json:"kpis"`
	RiskHistogram []RiskBucket   `json:"risk_histogram"`
	CriticalZones []string       `json:"critical_zones"`
	TopLivable    []LivablePoint `json:"top_livable"`
	Trend         []TrendPoint   `json:"trend"`
	Scatter       []ScatterPoint `json:"scatter"`
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float is a convenience constructor for optional numeric fields.
func Float(v float64) *float64 { return &v }
