package repository

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/directory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO slack_users (
			slack_user_id, email, real_name, display_name, is_bot, deleted, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (slack_user_id) DO UPDATE SET
			email = EXCLUDED.email,
			real_name = EXCLUDED.real_name,
			display_name = EXCLUDED.display_name,
			is_bot = EXCLUDED.is_bot,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at`,
		entry.SlackUserID,
		entry.Email,
		entry.RealName,
		entry.DisplayName,
		entry.IsBot,
		entry.Deleted,
		entry.UpdatedAt,
	).Error
}

// MarkUnreachable flags an already stored user; unknown ids are left alone.
func (r *repo) MarkUnreachable(ctx context.Context, db *gorm.DB, slackUserID string, isBot, deleted bool, updatedAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE slack_users SET is_bot = ?, deleted = ?, updated_at = ?
		WHERE slack_user_id = ? AND (is_bot <> ? OR deleted <> ?)`,
		isBot, deleted, updatedAt, slackUserID, isBot, deleted,
	)
	return res.RowsAffected > 0, res.Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Entry, error) {
	var entry domain.Entry
	err := db.WithContext(ctx).Raw(
		`SELECT slack_user_id, email, real_name, display_name, is_bot, deleted, updated_at
		FROM slack_users
		WHERE email = ? AND deleted = ? AND is_bot = ?
		ORDER BY updated_at DESC
		LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)),
		false,
		false,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.SlackUserID == "" {
		return nil, nil
	}
	return &entry, nil
}
