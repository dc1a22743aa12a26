// Package ashby talks to the applicant-tracking API.
package ashby

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Client is the subset of the tracking API the relay depends on.
type Client interface {
	CandidateInfo(ctx context.Context, candidateID string) (*Candidate, error)
	FileURL(ctx context.Context, handle string) (string, error)
	FeedbackFormDefinition(ctx context.Context, formDefinitionID string) (*FormDefinition, error)
	ListFeedbackFormDefinitions(ctx context.Context, cursor string) (Page[FormDefinition], error)
	InterviewInfo(ctx context.Context, interviewID string) (*Interview, error)
	ListInterviews(ctx context.Context, cursor string) (Page[Interview], error)
	JobInfo(ctx context.Context, jobID string) (*Job, error)
	SubmitFeedback(ctx context.Context, submission FeedbackSubmission) error
}

// Page is one cursor page of a list endpoint.
type Page[T any] struct {
	Results           []T
	MoreDataAvailable bool
	NextCursor        string
}

type ContactValue struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

type Location struct {
	LocationSummary string `json:"locationSummary"`
}

type SocialLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type FileHandle struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

type Candidate struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	PrimaryEmailAddress *ContactValue `json:"primaryEmailAddress,omitempty"`
	PrimaryPhoneNumber  *ContactValue `json:"primaryPhoneNumber,omitempty"`
	Location            *Location     `json:"location,omitempty"`
	Timezone            string        `json:"timezone,omitempty"`
	Position            string        `json:"position,omitempty"`
	Company             string        `json:"company,omitempty"`
	School              string        `json:"school,omitempty"`
	SocialLinks         []SocialLink  `json:"socialLinks,omitempty"`
	ProfileURL          string        `json:"profileUrl,omitempty"`
	ResumeFileHandle    *FileHandle   `json:"resumeFileHandle,omitempty"`
}

// FormDefinition keeps the raw document next to the few header fields the
// cache indexes on.
type FormDefinition struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	IsArchived bool            `json:"isArchived"`
	Raw        json.RawMessage `json:"-"`
}

type Interview struct {
	ID                       string `json:"id"`
	Title                    string `json:"title"`
	ExternalTitle            string `json:"externalTitle"`
	IsArchived               bool   `json:"isArchived"`
	IsDebrief                bool   `json:"isDebrief"`
	InstructionsHTML         string `json:"instructionsHtml"`
	InstructionsPlain        string `json:"instructionsPlain"`
	JobID                    string `json:"jobId"`
	FeedbackFormDefinitionID string `json:"feedbackFormDefinitionId"`
}

type Job struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FieldSubmission is one answered form field in the tracking system's format.
type FieldSubmission struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type FeedbackSubmission struct {
	FormDefinitionID string
	ApplicationID    string
	UserID           string
	InterviewEventID string
	FieldSubmissions []FieldSubmission
}
