package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Reconcile(ctx context.Context, update ScheduleUpdate) (ReconcileResult, error)
	EventDetails(ctx context.Context, eventID string) (*EventDetails, error)
}

var (
	ErrMissingScheduleID = errors.New("missing_schedule_id")
	ErrMissingStatus     = errors.New("missing_status")
	ErrEventNotFound     = errors.New("event_not_found")
)
