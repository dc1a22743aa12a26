package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FormDefinitionTTL is how long a cached form definition is served without
// asking the tracking system again.
const FormDefinitionTTL = 24 * time.Hour

// InterviewType is the cached definition of an interview kind.
type InterviewType struct {
	InterviewID              string    `gorm:"column:interview_id;primaryKey"`
	Title                    string    `gorm:"column:title"`
	ExternalTitle            string    `gorm:"column:external_title"`
	IsArchived               bool      `gorm:"column:is_archived"`
	IsDebrief                bool      `gorm:"column:is_debrief"`
	InstructionsHTML         string    `gorm:"column:instructions_html"`
	InstructionsPlain        string    `gorm:"column:instructions_plain"`
	JobID                    string    `gorm:"column:job_id"`
	FeedbackFormDefinitionID string    `gorm:"column:feedback_form_definition_id"`
	UpdatedAt                time.Time `gorm:"column:updated_at"`
}

func (InterviewType) TableName() string { return "interviews" }

// FormDefinitionRecord is the stored form definition; Definition holds the
// tracking system's document unchanged.
type FormDefinitionRecord struct {
	FormDefinitionID string         `gorm:"column:form_definition_id;primaryKey"`
	Title            string         `gorm:"column:title"`
	Definition       datatypes.JSON `gorm:"column:definition"`
	IsArchived       bool           `gorm:"column:is_archived"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (FormDefinitionRecord) TableName() string { return "feedback_form_definitions" }

// Fresh reports whether the record can be served without a refetch.
func (r *FormDefinitionRecord) Fresh(now time.Time) bool {
	return r != nil && now.Sub(r.UpdatedAt) < FormDefinitionTTL
}
