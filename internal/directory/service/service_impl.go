package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/directory/domain"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errCursorLoop = errors.New("pagination cursor did not advance")

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
	Slack slack.Provider
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
	slack slack.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("directory.service"),
		clock: p.Clock,
		repo:  p.Repo,
		slack: p.Slack,
	}
}

func (s *Service) Sync(ctx context.Context) (domain.SyncResult, error) {
	const op = "directory.Sync"
	var result domain.SyncResult
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		page, err := s.slack.ListUsers(ctx, cursor)
		if err != nil {
			return result, fmt.Errorf("list slack users: %w", err)
		}
		now := s.clock.Now()
		for _, user := range page.Members {
			result.Seen++
			if user.ID != "" && (user.IsBot || user.Deleted) {
				flagged, err := s.repo.MarkUnreachable(ctx, s.db, user.ID, user.IsBot, user.Deleted, now)
				if err != nil {
					return result, apperr.Storage(op, err)
				}
				if flagged {
					result.Deactivated++
				}
			}
			entry, ok := toEntry(user)
			if !ok {
				result.Skipped++
				continue
			}
			entry.UpdatedAt = now
			if err := s.repo.Upsert(ctx, s.db, entry); err != nil {
				return result, apperr.Storage(op, err)
			}
			result.Stored++
		}
		if page.NextCursor == "" {
			break
		}
		if page.NextCursor == cursor {
			return result, apperr.DependencyFailed(op, errCursorLoop)
		}
		cursor = page.NextCursor
	}

	s.log.Info("slack users synced",
		zap.Int("seen", result.Seen),
		zap.Int("stored", result.Stored),
		zap.Int("skipped", result.Skipped),
		zap.Int("deactivated", result.Deactivated),
	)
	return result, nil
}

// toEntry drops bots, deactivated accounts and users without an email.
func toEntry(user slack.User) (*domain.Entry, bool) {
	if user.IsBot || user.Deleted || user.ID == "" {
		return nil, false
	}
	email := strings.ToLower(strings.TrimSpace(user.Profile.Email))
	if email == "" {
		return nil, false
	}
	return &domain.Entry{
		SlackUserID: user.ID,
		Email:       email,
		RealName:    user.RealName,
		DisplayName: user.Profile.DisplayName,
	}, true
}
