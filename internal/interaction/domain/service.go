package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

// Service reacts to interactive callbacks from the chat platform.
type Service interface {
	Handle(ctx context.Context, payload *Payload) error
}

var (
	ErrMissingPayload = errors.New("missing_payload")
	ErrInvalidPayload = errors.New("invalid_payload")
)
