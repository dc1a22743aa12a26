package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, entry *Entry) error
	MarkUnreachable(ctx context.Context, db *gorm.DB, slackUserID string, isBot, deleted bool, updatedAt time.Time) (bool, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Entry, error)
}
