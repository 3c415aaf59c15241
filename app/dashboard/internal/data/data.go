package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/conf"
)

// Data wraps the optional Postgres handle. A nil db means the service runs
// read-only: analytics still work, run logging becomes a no-op and feedback
// submission is rejected.
type Data struct {
	db *sql.DB
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		helper.Info("no database configured, running without persistence")
		return &Data{}, func() {}, nil
	}

	db, err := sql.Open(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, nil, err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS report_runs (
			id SERIAL PRIMARY KEY,
			city TEXT NOT NULL,
			localities INT NOT NULL,
			avg_risk DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, nil, fmt.Errorf("failed to init report_runs table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id SERIAL PRIMARY KEY,
			locality TEXT NOT NULL,
			issues TEXT NOT NULL,
			details TEXT,
			contact TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, nil, fmt.Errorf("failed to init feedback table: %w", err)
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db}, cleanup, nil
}

// Enabled reports whether a database is attached.
func (d *Data) Enabled() bool { return d.db != nil }
