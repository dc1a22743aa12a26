package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	SelectDue(ctx context.Context, db *gorm.DB, from, to time.Time) ([]DuePair, error)
	// InsertDelivery reports false when a record for the pair already exists.
	InsertDelivery(ctx context.Context, db *gorm.DB, delivery *Delivery) (bool, error)
	MarkSubmitted(ctx context.Context, db *gorm.DB, eventID, interviewerID string, at time.Time) (int64, error)
	FindDelivery(ctx context.Context, db *gorm.DB, eventID, interviewerID string) (*Delivery, error)
}
