package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusComplete  Status = "Complete"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Known() bool {
	switch s {
	case StatusScheduled, StatusComplete, StatusCancelled:
		return true
	default:
		return false
	}
}

type Schedule struct {
	ScheduleID       string    `gorm:"column:schedule_id;primaryKey"`
	ApplicationID    string    `gorm:"column:application_id"`
	InterviewStageID string    `gorm:"column:interview_stage_id"`
	CandidateID      string    `gorm:"column:candidate_id"`
	Status           Status    `gorm:"column:status"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (Schedule) TableName() string { return "interview_schedules" }

type Event struct {
	EventID              string         `gorm:"column:event_id;primaryKey"`
	ScheduleID           string         `gorm:"column:schedule_id"`
	InterviewID          string         `gorm:"column:interview_id"`
	CreatedAt            *time.Time     `gorm:"column:created_at"`
	UpdatedAt            *time.Time     `gorm:"column:updated_at"`
	StartTime            *time.Time     `gorm:"column:start_time"`
	EndTime              *time.Time     `gorm:"column:end_time"`
	FeedbackLink         string         `gorm:"column:feedback_link"`
	Location             string         `gorm:"column:location"`
	MeetingLink          string         `gorm:"column:meeting_link"`
	HasSubmittedFeedback bool           `gorm:"column:has_submitted_feedback"`
	ExtraData            datatypes.JSON `gorm:"column:extra_data"`
}

func (Event) TableName() string { return "interview_events" }

type Assignment struct {
	EventID                   string         `gorm:"column:event_id;primaryKey"`
	InterviewerID             string         `gorm:"column:interviewer_id;primaryKey"`
	FirstName                 string         `gorm:"column:first_name"`
	LastName                  string         `gorm:"column:last_name"`
	Email                     string         `gorm:"column:email"`
	GlobalRole                string         `gorm:"column:global_role"`
	TrainingRole              string         `gorm:"column:training_role"`
	IsEnabled                 bool           `gorm:"column:is_enabled"`
	ManagerID                 string         `gorm:"column:manager_id"`
	InterviewerPoolID         string         `gorm:"column:interviewer_pool_id"`
	InterviewerPoolTitle      string         `gorm:"column:interviewer_pool_title"`
	InterviewerPoolIsArchived bool           `gorm:"column:interviewer_pool_is_archived"`
	TrainingPath              datatypes.JSON `gorm:"column:training_path"`
	InterviewerUpdatedAt      *time.Time     `gorm:"column:interviewer_updated_at"`
}

func (Assignment) TableName() string { return "interview_assignments" }

// EventDetails is what the feedback form shows about an interview.
type EventDetails struct {
	EventID           string     `gorm:"column:event_id"`
	StartTime         *time.Time `gorm:"column:start_time"`
	EndTime           *time.Time `gorm:"column:end_time"`
	MeetingLink       string     `gorm:"column:meeting_link"`
	InterviewTitle    string     `gorm:"column:interview_title"`
	InstructionsPlain string     `gorm:"column:instructions_plain"`
}

// Outcome is what a reconcile did to storage.
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeReplaced Outcome = "replaced"
)

type ReconcileResult struct {
	Outcome            Outcome
	EventsWritten      int
	EventsSkipped      int
	AssignmentsWritten int
}
