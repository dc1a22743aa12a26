package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

// Selector finds reminders that are due now.
type Selector interface {
	SelectDue(ctx context.Context) ([]DuePair, error)
}

// SentReceipt identifies the delivered message for one pair.
type SentReceipt struct {
	EventID       string
	InterviewerID string
	SlackUserID   string
	ChannelID     string
	MessageTS     string
}

type Tracker interface {
	RecordSent(ctx context.Context, receipt SentReceipt) (bool, error)
	// MarkSubmitted is a no-op when no reminder was recorded for the pair.
	MarkSubmitted(ctx context.Context, eventID, interviewerID string) error
}

type Dispatcher interface {
	SendDueReminders(ctx context.Context) (BatchResult, error)
}

var (
	ErrMissingPair      = errors.New("missing_event_or_interviewer")
	ErrMissingCandidate = errors.New("missing_candidate")
)
