package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultFetchTimeout = 10 * time.Second

type Params struct {
	fx.In

	Config config.Config `optional:"true"`
	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Repo   domain.Repository
	Ashby  ashby.Client
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
	ashby ashby.Client
	group singleflight.Group

	fetchTimeout time.Duration
}

func New(p Params) domain.Service {
	fetchTimeout := p.Config.OutboundTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("catalog.service"),
		clock:        p.Clock,
		repo:         p.Repo,
		ashby:        p.Ashby,
		fetchTimeout: fetchTimeout,
	}
}

// GetFormDefinition serves the cached definition while it is fresh and
// refetches otherwise. A failed refetch falls back to a stale row when one exists.
func (s *Service) GetFormDefinition(ctx context.Context, formDefinitionID string) (*domain.FormDefinition, error) {
	const op = "catalog.GetFormDefinition"
	formDefinitionID = strings.TrimSpace(formDefinitionID)
	if formDefinitionID == "" {
		return nil, apperr.MalformedInput(op, domain.ErrEmptyIdentifier)
	}

	cached, err := s.repo.FindFormDefinition(ctx, s.db, formDefinitionID)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	if cached.Fresh(s.clock.Now()) {
		return domain.ParseFormDefinition(cached.Definition)
	}

	fetched, err := s.sharedFetch(ctx, formDefinitionID)
	if err != nil {
		if cached != nil {
			s.log.Warn("form definition refetch failed, serving stale copy",
				zap.String("form_definition_id", formDefinitionID),
				zap.Time("cached_at", cached.UpdatedAt),
				zap.Error(err),
			)
			return domain.ParseFormDefinition(cached.Definition)
		}
		return nil, err
	}
	return fetched, nil
}

// sharedFetch collapses concurrent refetches of one definition. The fetch
// outlives any single waiter and is bounded by the outbound timeout instead.
func (s *Service) sharedFetch(ctx context.Context, formDefinitionID string) (*domain.FormDefinition, error) {
	ch := s.group.DoChan(formDefinitionID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetchFormDefinition(fetchCtx, formDefinitionID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.FormDefinition), nil
	}
}

func (s *Service) fetchFormDefinition(ctx context.Context, formDefinitionID string) (*domain.FormDefinition, error) {
	doc, err := s.ashby.FeedbackFormDefinition(ctx, formDefinitionID)
	if err != nil {
		return nil, fmt.Errorf("fetch form definition %s: %w", formDefinitionID, err)
	}

	parsed, err := domain.ParseFormDefinition(doc.Raw)
	if err != nil {
		return nil, apperr.DependencyFailed("catalog.fetchFormDefinition", err)
	}

	record := &domain.FormDefinitionRecord{
		FormDefinitionID: formDefinitionID,
		Title:            doc.Title,
		Definition:       datatypes.JSON(doc.Raw),
		IsArchived:       doc.IsArchived,
		UpdatedAt:        s.clock.Now(),
	}
	if err := s.repo.UpsertFormDefinition(ctx, s.db, record); err != nil {
		s.log.Warn("failed to cache form definition",
			zap.String("form_definition_id", formDefinitionID),
			zap.Error(err),
		)
	}
	return parsed, nil
}

// RefreshInterviewType always asks the tracking system and overwrites the row.
func (s *Service) RefreshInterviewType(ctx context.Context, interviewID string) error {
	const op = "catalog.RefreshInterviewType"
	interviewID = strings.TrimSpace(interviewID)
	if interviewID == "" {
		return apperr.MalformedInput(op, domain.ErrEmptyIdentifier)
	}

	interview, err := s.ashby.InterviewInfo(ctx, interviewID)
	if err != nil {
		return fmt.Errorf("fetch interview %s: %w", interviewID, err)
	}
	if err := s.repo.UpsertInterviewType(ctx, s.db, s.toInterviewType(interview, interviewID)); err != nil {
		return apperr.Storage(op, err)
	}
	s.log.Debug("interview type refreshed", zap.String("interview_id", interviewID))
	return nil
}

func (s *Service) toInterviewType(in *ashby.Interview, fallbackID string) *domain.InterviewType {
	id := in.ID
	if id == "" {
		id = fallbackID
	}
	return &domain.InterviewType{
		InterviewID:              id,
		Title:                    in.Title,
		ExternalTitle:            in.ExternalTitle,
		IsArchived:               in.IsArchived,
		IsDebrief:                in.IsDebrief,
		InstructionsHTML:         in.InstructionsHTML,
		InstructionsPlain:        in.InstructionsPlain,
		JobID:                    in.JobID,
		FeedbackFormDefinitionID: in.FeedbackFormDefinitionID,
		UpdatedAt:                s.clock.Now(),
	}
}

var errCursorLoop = errors.New("pagination cursor did not advance")
