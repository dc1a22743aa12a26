package repository

import (
	"context"

	"github.com/smallbiznis/feedbackrelay/internal/admin/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB) (domain.Stats, error) {
	var stats domain.Stats
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COUNT(*) FROM feedback_reminders_sent) AS reminders_sent,
			(SELECT COUNT(*) FROM feedback_reminders_sent WHERE submitted_at IS NULL) AS pending_feedback,
			(SELECT COUNT(*) FROM feedback_drafts) AS active_drafts,
			(SELECT COUNT(*) FROM feedback_form_definitions WHERE is_archived = ?) AS feedback_forms,
			(SELECT COUNT(*) FROM slack_users WHERE deleted = ?) AS slack_users`,
		false,
		false,
	).Scan(&stats).Error
	return stats, err
}
