package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/feedbackrelay/internal/slackui"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

const (
	SuccessMessage       = "✅ *Feedback submitted successfully*\n\nThank you for completing the interview feedback!"
	FailureMessagePrefix = "❌ *Failed to submit feedback*\n\n"
)

// Submission is one completed feedback form waiting to be forwarded.
type Submission struct {
	Context       slackui.FeedbackContext
	SlackUserID   string
	State         slackui.StateValues
	CorrelationID string
}

// Finalizer clears local state after the tracking system accepted a submission.
type Finalizer interface {
	Finalize(ctx context.Context, eventID, interviewerID string) error
}

// Processor forwards a submission and notifies the reviewer of the outcome.
type Processor interface {
	Process(ctx context.Context, submission Submission) error
}

type Queue interface {
	Enqueue(ctx context.Context, submission Submission) error
}

var (
	ErrQueueFull         = errors.New("submission_queue_full")
	ErrQueueClosed       = errors.New("submission_queue_closed")
	ErrMissingSubmission = errors.New("missing_submission_context")
)
