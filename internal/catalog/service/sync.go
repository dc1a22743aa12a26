package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SyncFormDefinitions walks every page of form definitions and upserts them.
// It returns how many rows were written before any failure.
func (s *Service) SyncFormDefinitions(ctx context.Context) (int, error) {
	const op = "catalog.SyncFormDefinitions"
	synced := 0
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		page, err := s.ashby.ListFeedbackFormDefinitions(ctx, cursor)
		if err != nil {
			return synced, fmt.Errorf("list form definitions: %w", err)
		}
		now := s.clock.Now()
		for _, def := range page.Results {
			if def.ID == "" {
				continue
			}
			record := &domain.FormDefinitionRecord{
				FormDefinitionID: def.ID,
				Title:            def.Title,
				Definition:       datatypes.JSON(def.Raw),
				IsArchived:       def.IsArchived,
				UpdatedAt:        now,
			}
			if err := s.repo.UpsertFormDefinition(ctx, s.db, record); err != nil {
				return synced, apperr.Storage(op, err)
			}
			synced++
		}
		if !page.MoreDataAvailable {
			break
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return synced, apperr.DependencyFailed(op, errCursorLoop)
		}
		cursor = page.NextCursor
	}
	s.log.Info("form definitions synced", zap.Int("count", synced))
	return synced, nil
}

// SyncInterviewTypes walks every page of interview definitions and upserts them.
func (s *Service) SyncInterviewTypes(ctx context.Context) (int, error) {
	const op = "catalog.SyncInterviewTypes"
	synced := 0
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		page, err := s.ashby.ListInterviews(ctx, cursor)
		if err != nil {
			return synced, fmt.Errorf("list interviews: %w", err)
		}
		for i := range page.Results {
			interview := page.Results[i]
			if interview.ID == "" {
				continue
			}
			if err := s.repo.UpsertInterviewType(ctx, s.db, s.toInterviewType(&interview, interview.ID)); err != nil {
				return synced, apperr.Storage(op, err)
			}
			synced++
		}
		if !page.MoreDataAvailable {
			break
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return synced, apperr.DependencyFailed(op, errCursorLoop)
		}
		cursor = page.NextCursor
	}
	s.log.Info("interview types synced", zap.Int("count", synced))
	return synced, nil
}
