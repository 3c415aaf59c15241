// Package repo declares the storage contracts consumed by the use cases.
package repo

import (
	"context"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
)

// RunRepo logs snapshot refreshes.
type RunRepo interface {
	SaveRun(ctx context.Context, run *domain.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]*domain.RunSummary, error)
}

// FeedbackRepo stores community submissions.
type FeedbackRepo interface {
	SaveFeedback(ctx context.Context, fb *domain.Feedback) (int, error)
}
