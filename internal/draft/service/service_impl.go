package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/draft/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("draft.service"),
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// Save stores the values as the pair's draft. Empty values are not saved.
func (s *Service) Save(ctx context.Context, eventID, interviewerID string, values map[string]any) error {
	const op = "draft.Save"
	if err := validatePair(op, eventID, interviewerID); err != nil {
		return err
	}
	if len(values) == 0 {
		s.log.Debug("skipping empty draft", zap.String("event_id", eventID))
		return nil
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return apperr.MalformedInput(op, fmt.Errorf("encode draft: %w", err))
	}
	now := s.clock.Now()
	if err := s.repo.Upsert(ctx, s.db, &domain.Draft{
		EventID:       eventID,
		InterviewerID: interviewerID,
		FormValues:    datatypes.JSON(raw),
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		return apperr.Storage(op, err)
	}

	s.metrics.RecordDraftSave(ctx)
	s.log.Info("draft saved",
		zap.String("event_id", eventID),
		zap.String("interviewer_id", interviewerID),
		zap.Int("fields", len(values)),
	)
	return nil
}

// Load returns the stored values, or an empty map when there is no draft.
func (s *Service) Load(ctx context.Context, eventID, interviewerID string) (map[string]any, error) {
	const op = "draft.Load"
	if err := validatePair(op, eventID, interviewerID); err != nil {
		return nil, err
	}
	d, err := s.repo.Find(ctx, s.db, eventID, interviewerID)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	values := map[string]any{}
	if d == nil {
		return values, nil
	}
	if err := json.Unmarshal(d.FormValues, &values); err != nil {
		return nil, apperr.Storage(op, fmt.Errorf("%w: %v", domain.ErrCorruptedDraft, err))
	}
	return values, nil
}

func (s *Service) Delete(ctx context.Context, eventID, interviewerID string) error {
	const op = "draft.Delete"
	if err := validatePair(op, eventID, interviewerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, eventID, interviewerID); err != nil {
		return apperr.Storage(op, err)
	}
	s.log.Info("draft deleted",
		zap.String("event_id", eventID),
		zap.String("interviewer_id", interviewerID),
	)
	return nil
}

func validatePair(op, eventID, interviewerID string) error {
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(interviewerID) == "" {
		return apperr.MalformedInput(op, domain.ErrMissingPair)
	}
	return nil
}
