package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindFormDefinition returns nil, nil when the row is absent.
	FindFormDefinition(ctx context.Context, db *gorm.DB, formDefinitionID string) (*FormDefinitionRecord, error)
	UpsertFormDefinition(ctx context.Context, db *gorm.DB, record *FormDefinitionRecord) error
	FindInterviewType(ctx context.Context, db *gorm.DB, interviewID string) (*InterviewType, error)
	UpsertInterviewType(ctx context.Context, db *gorm.DB, interview *InterviewType) error
}
