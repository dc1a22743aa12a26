package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Save(ctx context.Context, eventID, interviewerID string, values map[string]any) error
	Load(ctx context.Context, eventID, interviewerID string) (map[string]any, error)
	Delete(ctx context.Context, eventID, interviewerID string) error
}

var (
	ErrMissingPair    = errors.New("missing_event_or_interviewer")
	ErrCorruptedDraft = errors.New("corrupted_draft")
)
