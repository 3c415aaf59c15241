package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/repo"
)

type runRepo struct {
	data *Data
	log  *log.Helper
}

func NewRunRepo(data *Data, logger log.Logger) repo.RunRepo {
	return &runRepo{data: data, log: log.NewHelper(logger)}
}

// SaveRun is best effort: without a database it silently does nothing, a
// refresh must never fail because the audit insert did.
func (r *runRepo) SaveRun(ctx context.Context, run *domain.RunSummary) error {
	if !r.data.Enabled() {
		return nil
	}
	_, err := r.data.db.ExecContext(ctx,
		`INSERT INTO report_runs (city, localities, avg_risk) VALUES ($1, $2, $3)`,
		run.City, run.Localities, run.AvgRisk)
	return err
}

func (r *runRepo) ListRuns(ctx context.Context, limit int) ([]*domain.RunSummary, error) {
	if !r.data.Enabled() {
		return nil, nil
	}
	if limit < 1 {
		limit = 10
	}
	rows, err := r.data.db.QueryContext(ctx,
		`SELECT id, city, localities, avg_risk, created_at FROM report_runs ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.RunSummary
	for rows.Next() {
		var run domain.RunSummary
		if err := rows.Scan(&run.ID, &run.City, &run.Localities, &run.AvgRisk, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
