package domain

import "time"

// Entry maps a chat-platform user to the email reviewers are assigned by.
type Entry struct {
	SlackUserID string    `gorm:"column:slack_user_id;primaryKey"`
	Email       string    `gorm:"column:email"`
	RealName    string    `gorm:"column:real_name"`
	DisplayName string    `gorm:"column:display_name"`
	IsBot       bool      `gorm:"column:is_bot"`
	Deleted     bool      `gorm:"column:deleted"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Entry) TableName() string { return "slack_users" }
