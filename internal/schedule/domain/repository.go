package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	UpsertSchedule(ctx context.Context, db *gorm.DB, schedule *Schedule) error
	// DeleteEvents removes every event of the schedule together with its assignments.
	DeleteEvents(ctx context.Context, db *gorm.DB, scheduleID string) error
	InsertEvent(ctx context.Context, db *gorm.DB, event *Event) error
	InsertAssignment(ctx context.Context, db *gorm.DB, assignment *Assignment) error
	DeleteSchedule(ctx context.Context, db *gorm.DB, scheduleID string) (int64, error)
	FindEventDetails(ctx context.Context, db *gorm.DB, eventID string) (*EventDetails, error)
}
