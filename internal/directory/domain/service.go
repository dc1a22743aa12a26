package domain

import "context"

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	// Sync pulls every chat-platform user and stores the reachable humans.
	Sync(ctx context.Context) (SyncResult, error)
}

type SyncResult struct {
	Seen    int
	Stored  int
	Skipped int

	// Deactivated counts stored entries flagged after leaving or becoming bots.
	Deactivated int
}
