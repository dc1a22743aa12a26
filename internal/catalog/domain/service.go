package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	GetFormDefinition(ctx context.Context, formDefinitionID string) (*FormDefinition, error)
	RefreshInterviewType(ctx context.Context, interviewID string) error
	SyncFormDefinitions(ctx context.Context) (int, error)
	SyncInterviewTypes(ctx context.Context) (int, error)
}

var (
	ErrInvalidFormDefinition = errors.New("invalid_form_definition")
	ErrEmptyIdentifier       = errors.New("empty_identifier")
)
