package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// WebhookPayload is one verified inbound webhook exactly as received, with
// secrets masked.
type WebhookPayload struct {
	ID         snowflake.ID   `gorm:"column:id;primaryKey" json:"id"`
	ScheduleID *string        `gorm:"column:schedule_id" json:"schedule_id,omitempty"`
	Action     string         `gorm:"column:action" json:"action"`
	Payload    datatypes.JSON `gorm:"column:payload" json:"payload"`
	ReceivedAt time.Time      `gorm:"column:received_at" json:"received_at"`
}

func (WebhookPayload) TableName() string { return "ashby_webhook_payloads" }

type ListFilter struct {
	ScheduleID string
	Limit      int
}
