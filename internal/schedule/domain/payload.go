package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ScheduleUpdate is the interviewSchedule object of an update webhook.
type ScheduleUpdate struct {
	ID               string         `json:"id"`
	Status           string         `json:"status"`
	ApplicationID    string         `json:"applicationId"`
	InterviewStageID string         `json:"interviewStageId"`
	CandidateID      string         `json:"candidateId"`
	InterviewEvents  []EventPayload `json:"interviewEvents"`
}

type InterviewRef struct {
	ID string `json:"id"`
}

type EventPayload struct {
	ID                   string               `json:"id"`
	InterviewID          string               `json:"interviewId"`
	Interview            *InterviewRef        `json:"interview"`
	CreatedAt            string               `json:"createdAt"`
	UpdatedAt            string               `json:"updatedAt"`
	StartTime            string               `json:"startTime"`
	EndTime              string               `json:"endTime"`
	FeedbackLink         string               `json:"feedbackLink"`
	Location             string               `json:"location"`
	MeetingLink          string               `json:"meetingLink"`
	HasSubmittedFeedback bool                 `json:"hasSubmittedFeedback"`
	ExtraData            json.RawMessage      `json:"extraData"`
	Interviewers         []InterviewerPayload `json:"interviewers"`
}

// ResolveInterviewID prefers the direct reference and falls back to the
// nested interview object.
func (e EventPayload) ResolveInterviewID() string {
	if id := strings.TrimSpace(e.InterviewID); id != "" {
		return id
	}
	if e.Interview != nil {
		return strings.TrimSpace(e.Interview.ID)
	}
	return ""
}

type PoolPayload struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	IsArchived   *bool           `json:"isArchived"`
	TrainingPath json.RawMessage `json:"trainingPath"`
}

type InterviewerPayload struct {
	ID              string       `json:"id"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Email           string       `json:"email"`
	GlobalRole      string       `json:"globalRole"`
	TrainingRole    string       `json:"trainingRole"`
	IsEnabled       *bool        `json:"isEnabled"`
	ManagerID       string       `json:"managerId"`
	InterviewerPool *PoolPayload `json:"interviewerPool"`
	UpdatedAt       string       `json:"updatedAt"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// ParseTimestamp returns nil for empty or unparseable values.
func ParseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
