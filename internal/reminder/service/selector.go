package service

import (
	"context"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type SelectorParams struct {
	fx.In

	DB    *gorm.DB
	Clock clock.Clock
	Repo  domain.Repository
}

type Selector struct {
	db    *gorm.DB
	clock clock.Clock
	repo  domain.Repository
}

func NewSelector(p SelectorParams) domain.Selector {
	return &Selector{db: p.DB, clock: p.Clock, repo: p.Repo}
}

// SelectDue returns pairs starting within the reminder window that have no
// delivery record yet.
func (s *Selector) SelectDue(ctx context.Context) ([]domain.DuePair, error) {
	now := s.clock.Now()
	pairs, err := s.repo.SelectDue(ctx, s.db, now.Add(domain.WindowStart), now.Add(domain.WindowEnd))
	if err != nil {
		return nil, apperr.Storage("reminder.SelectDue", err)
	}
	return pairs, nil
}
