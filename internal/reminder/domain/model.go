package domain

import "time"

const (
	// WindowStart and WindowEnd bound how far ahead of an interview's start
	// a reminder is due. Both ends are inclusive.
	WindowStart = 4 * time.Minute
	WindowEnd   = 20 * time.Minute
)

// DuePair is one (event, interviewer) pair whose reminder is due.
type DuePair struct {
	EventID                  string     `gorm:"column:event_id"`
	StartTime                time.Time  `gorm:"column:start_time"`
	EndTime                  *time.Time `gorm:"column:end_time"`
	MeetingLink              string     `gorm:"column:meeting_link"`
	Location                 string     `gorm:"column:location"`
	FeedbackLink             string     `gorm:"column:feedback_link"`
	InterviewerID            string     `gorm:"column:interviewer_id"`
	InterviewerEmail         string     `gorm:"column:interviewer_email"`
	FirstName                string     `gorm:"column:first_name"`
	LastName                 string     `gorm:"column:last_name"`
	SlackUserID              string     `gorm:"column:slack_user_id"`
	InterviewTitle           string     `gorm:"column:interview_title"`
	InstructionsPlain        string     `gorm:"column:instructions_plain"`
	JobID                    string     `gorm:"column:job_id"`
	FeedbackFormDefinitionID string     `gorm:"column:feedback_form_definition_id"`
	CandidateID              string     `gorm:"column:candidate_id"`
	ApplicationID            string     `gorm:"column:application_id"`
	InterviewStageID         string     `gorm:"column:interview_stage_id"`
}

func (p DuePair) Key() string {
	return p.EventID + "|" + p.InterviewerID
}

// Delivery records that a reminder reached an interviewer. Its existence is
// what keeps the pair from being selected again.
type Delivery struct {
	EventID        string     `gorm:"column:event_id;primaryKey"`
	InterviewerID  string     `gorm:"column:interviewer_id;primaryKey"`
	SlackUserID    string     `gorm:"column:slack_user_id"`
	SlackChannelID string     `gorm:"column:slack_channel_id"`
	SlackMessageTS string     `gorm:"column:slack_message_ts"`
	SentAt         time.Time  `gorm:"column:sent_at"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at"`
}

func (Delivery) TableName() string { return "feedback_reminders_sent" }

// BatchResult summarizes one dispatch pass.
type BatchResult struct {
	Due       int
	Sent      int
	Duplicate int
	Failed    int
}
