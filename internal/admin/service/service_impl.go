package service

import (
	"context"

	"github.com/smallbiznis/feedbackrelay/internal/admin/domain"
	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("admin.service"),
		repo: p.Repo,
	}
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := s.repo.Stats(ctx, s.db)
	if err != nil {
		s.log.Warn("failed to load stats", zap.Error(err))
		return domain.Stats{}, apperr.Storage("admin.Stats", err)
	}
	return stats, nil
}
