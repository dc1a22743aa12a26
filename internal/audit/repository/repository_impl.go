package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.WebhookPayload) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO ashby_webhook_payloads (id, schedule_id, action, payload, received_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ScheduleID,
		entry.Action,
		entry.Payload,
		entry.ReceivedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.WebhookPayload, error) {
	var rows []*domain.WebhookPayload
	stmt := db.WithContext(ctx).Model(&domain.WebhookPayload{})
	if scheduleID := strings.TrimSpace(filter.ScheduleID); scheduleID != "" {
		stmt = stmt.Where("schedule_id = ?", scheduleID)
	}
	stmt = stmt.Order("received_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
