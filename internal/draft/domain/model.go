package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Draft holds a reviewer's in-progress form values for one event.
type Draft struct {
	EventID       string         `gorm:"column:event_id;primaryKey"`
	InterviewerID string         `gorm:"column:interviewer_id;primaryKey"`
	FormValues    datatypes.JSON `gorm:"column:form_values"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (Draft) TableName() string { return "feedback_drafts" }
