package domain

import "context"

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}
