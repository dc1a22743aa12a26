package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Upsert keeps created_at of an existing row.
	Upsert(ctx context.Context, db *gorm.DB, draft *Draft) error
	Find(ctx context.Context, db *gorm.DB, eventID, interviewerID string) (*Draft, error)
	Delete(ctx context.Context, db *gorm.DB, eventID, interviewerID string) error
}
