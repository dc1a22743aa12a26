package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type RecordInput struct {
	ScheduleID string
	Action     string
	Payload    []byte
}

type ListRequest struct {
	ScheduleID string
	Limit      int
}

type Service interface {
	Record(ctx context.Context, in RecordInput) error
	List(ctx context.Context, req ListRequest) ([]WebhookPayload, error)
}

var (
	ErrInvalidAction = errors.New("invalid_action")
	ErrEmptyPayload  = errors.New("empty_payload")
)
