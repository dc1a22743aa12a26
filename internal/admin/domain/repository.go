package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Stats(ctx context.Context, db *gorm.DB) (Stats, error)
}
