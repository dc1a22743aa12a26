package repository

import (
	"context"

	"github.com/smallbiznis/feedbackrelay/internal/draft/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, d *domain.Draft) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO feedback_drafts (event_id, interviewer_id, form_values, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (event_id, interviewer_id) DO UPDATE SET
			form_values = EXCLUDED.form_values,
			updated_at = EXCLUDED.updated_at`,
		d.EventID,
		d.InterviewerID,
		string(d.FormValues),
		d.CreatedAt,
		d.UpdatedAt,
	).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, eventID, interviewerID string) (*domain.Draft, error) {
	var d domain.Draft
	err := db.WithContext(ctx).Raw(
		`SELECT event_id, interviewer_id, form_values, created_at, updated_at
		FROM feedback_drafts
		WHERE event_id = ? AND interviewer_id = ?`,
		eventID,
		interviewerID,
	).Scan(&d).Error
	if err != nil {
		return nil, err
	}
	if d.EventID == "" {
		return nil, nil
	}
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, eventID, interviewerID string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM feedback_drafts WHERE event_id = ? AND interviewer_id = ?`,
		eventID,
		interviewerID,
	).Error
}
