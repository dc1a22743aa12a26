package repository

import (
	"context"

	"github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindFormDefinition(ctx context.Context, db *gorm.DB, formDefinitionID string) (*domain.FormDefinitionRecord, error) {
	var rec domain.FormDefinitionRecord
	err := db.WithContext(ctx).Raw(
		`SELECT form_definition_id, title, definition, is_archived, updated_at
		FROM feedback_form_definitions
		WHERE form_definition_id = ?`,
		formDefinitionID,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.FormDefinitionID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) UpsertFormDefinition(ctx context.Context, db *gorm.DB, record *domain.FormDefinitionRecord) error {
	if record == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO feedback_form_definitions (
			form_definition_id, title, definition, is_archived, updated_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (form_definition_id) DO UPDATE SET
			title = EXCLUDED.title,
			definition = EXCLUDED.definition,
			is_archived = EXCLUDED.is_archived,
			updated_at = EXCLUDED.updated_at`,
		record.FormDefinitionID,
		record.Title,
		record.Definition,
		record.IsArchived,
		record.UpdatedAt,
	).Error
}

func (r *repo) FindInterviewType(ctx context.Context, db *gorm.DB, interviewID string) (*domain.InterviewType, error) {
	var it domain.InterviewType
	err := db.WithContext(ctx).Raw(
		`SELECT interview_id, title, external_title, is_archived, is_debrief,
			instructions_html, instructions_plain, job_id,
			feedback_form_definition_id, updated_at
		FROM interviews
		WHERE interview_id = ?`,
		interviewID,
	).Scan(&it).Error
	if err != nil {
		return nil, err
	}
	if it.InterviewID == "" {
		return nil, nil
	}
	return &it, nil
}

func (r *repo) UpsertInterviewType(ctx context.Context, db *gorm.DB, interview *domain.InterviewType) error {
	if interview == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO interviews (
			interview_id, title, external_title, is_archived, is_debrief,
			instructions_html, instructions_plain, job_id,
			feedback_form_definition_id, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (interview_id) DO UPDATE SET
			title = EXCLUDED.title,
			external_title = EXCLUDED.external_title,
			is_archived = EXCLUDED.is_archived,
			is_debrief = EXCLUDED.is_debrief,
			instructions_html = EXCLUDED.instructions_html,
			instructions_plain = EXCLUDED.instructions_plain,
			job_id = EXCLUDED.job_id,
			feedback_form_definition_id = EXCLUDED.feedback_form_definition_id,
			updated_at = EXCLUDED.updated_at`,
		interview.InterviewID,
		interview.Title,
		interview.ExternalTitle,
		interview.IsArchived,
		interview.IsDebrief,
		interview.InstructionsHTML,
		interview.InstructionsPlain,
		interview.JobID,
		interview.FeedbackFormDefinitionID,
		interview.UpdatedAt,
	).Error
}
