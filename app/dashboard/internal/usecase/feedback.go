package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/repo"
)

var (
	ErrFeedbackLocality = errors.New("locality is required")
	ErrFeedbackIssues   = errors.New("select at least one issue")
)

// FeedbackUseCase validates and stores community submissions.
type FeedbackUseCase struct {
	repo repo.FeedbackRepo
	log  *log.Helper
}

func NewFeedbackUseCase(repo repo.FeedbackRepo, logger log.Logger) *FeedbackUseCase {
	return &FeedbackUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Submit stores one feedback entry and returns its id.
func (uc *FeedbackUseCase) Submit(ctx context.Context, fb *domain.Feedback) (int, error) {
	fb.Locality = strings.TrimSpace(fb.Locality)
	if fb.Locality == "" {
		return 0, ErrFeedbackLocality
	}

	issues := fb.Issues[:0]
	for _, issue := range fb.Issues {
		if issue = strings.TrimSpace(issue); issue != "" {
			issues = append(issues, issue)
		}
	}
	fb.Issues = issues
	if len(fb.Issues) == 0 {
		return 0, ErrFeedbackIssues
	}

	id, err := uc.repo.SaveFeedback(ctx, fb)
	if err != nil {
		return 0, err
	}
	uc.log.Infof("feedback #%d recorded for [%s]", id, fb.Locality)
	return id, nil
}
