package data

import (
	"context"
	"errors"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/repo"
)

// ErrStoreDisabled is returned when a write needs the database but none is
// configured.
var ErrStoreDisabled = errors.New("feedback store disabled: no database configured")

type feedbackRepo struct {
	data *Data
	log  *log.Helper
}

func NewFeedbackRepo(data *Data, logger log.Logger) repo.FeedbackRepo {
	return &feedbackRepo{data: data, log: log.NewHelper(logger)}
}

func (r *feedbackRepo) SaveFeedback(ctx context.Context, fb *domain.Feedback) (int, error) {
	if !r.data.Enabled() {
		return 0, ErrStoreDisabled
	}
	var id int
	err := r.data.db.QueryRowContext(ctx,
		`INSERT INTO feedback (locality, issues, details, contact) VALUES ($1, $2, $3, $4) RETURNING id`,
		fb.Locality, strings.Join(fb.Issues, ","), fb.Details, fb.Contact).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
