// Package domain holds the dashboard's persistence-facing types.
package domain

// Feedback is one community heat-issue submission.
type Feedback struct {
	ID       int      `json:"id"`
	Locality string   `json:"locality"`
	Issues   []string `json:"issues"`
	Details  string   `json:"details"`
	Contact  string   `json:"contact"`
}

// RunSummary records one completed snapshot refresh.
type RunSummary struct {
	ID         int     `json:"id"`
	City       string  `json:"city"`
	Localities int     `json:"localities"`
	AvgRisk    float64 `json:"avg_risk"`
	CreatedAt  string  `json:"created_at"`
}
