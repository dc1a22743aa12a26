package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
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
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    domain.Repository
	catalog catalogdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("schedule.service"),
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

// Reconcile makes storage mirror the schedule in the update. Cancelled
// schedules are removed; any other known status replaces the stored events
// and assignments in a single transaction.
func (s *Service) Reconcile(ctx context.Context, update domain.ScheduleUpdate) (domain.ReconcileResult, error) {
	const op = "schedule.Reconcile"
	update.ID = strings.TrimSpace(update.ID)
	if update.ID == "" {
		return domain.ReconcileResult{}, apperr.MalformedInput(op, domain.ErrMissingScheduleID)
	}
	status := domain.Status(strings.TrimSpace(update.Status))
	if status == "" {
		return domain.ReconcileResult{}, apperr.MalformedInput(op, domain.ErrMissingStatus)
	}

	log := logger.WithContext(ctx, s.log).With(
		zap.String("schedule_id", update.ID),
		zap.String("status", string(status)),
	)

	switch status {
	case domain.StatusCancelled:
		return s.remove(ctx, log, update.ID)
	case domain.StatusScheduled, domain.StatusComplete:
		return s.replace(ctx, log, update, status)
	default:
		log.Info("ignoring schedule with unhandled status")
		return domain.ReconcileResult{Outcome: domain.OutcomeIgnored}, nil
	}
}

func (s *Service) remove(ctx context.Context, log *zap.Logger, scheduleID string) (domain.ReconcileResult, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.repo.DeleteSchedule(ctx, tx, scheduleID)
		deleted = n
		return err
	})
	if err != nil {
		return domain.ReconcileResult{}, apperr.Storage("schedule.Delete", err)
	}
	log.Info("schedule cancelled", zap.Int64("rows", deleted))
	return domain.ReconcileResult{Outcome: domain.OutcomeDeleted}, nil
}

func (s *Service) replace(ctx context.Context, log *zap.Logger, update domain.ScheduleUpdate, status domain.Status) (domain.ReconcileResult, error) {
	result := domain.ReconcileResult{Outcome: domain.OutcomeReplaced}
	now := s.clock.Now()

	events := make([]*domain.Event, 0, len(update.InterviewEvents))
	assignments := make([]*domain.Assignment, 0)
	seenEvents := make(map[string]struct{}, len(update.InterviewEvents))
	interviewIDs := make([]string, 0, len(update.InterviewEvents))
	seenInterviews := make(map[string]struct{})

	for _, payload := range update.InterviewEvents {
		eventID := strings.TrimSpace(payload.ID)
		interviewID := payload.ResolveInterviewID()
		if eventID == "" || interviewID == "" {
			log.Warn("skipping interview event without identifiers",
				zap.String("event_id", eventID),
				zap.String("interview_id", interviewID),
			)
			result.EventsSkipped++
			continue
		}
		if _, dup := seenEvents[eventID]; dup {
			log.Warn("skipping duplicate interview event", zap.String("event_id", eventID))
			result.EventsSkipped++
			continue
		}
		seenEvents[eventID] = struct{}{}
		if _, ok := seenInterviews[interviewID]; !ok {
			seenInterviews[interviewID] = struct{}{}
			interviewIDs = append(interviewIDs, interviewID)
		}

		events = append(events, toEvent(update.ID, eventID, interviewID, payload))
		assignments = append(assignments, toAssignments(log, eventID, payload.Interviewers)...)
	}

	// Interview metadata is refreshed outside the transaction; a failure
	// leaves the previous catalog row in place.
	for _, interviewID := range interviewIDs {
		if err := s.catalog.RefreshInterviewType(ctx, interviewID); err != nil {
			log.Warn("interview type refresh failed",
				zap.String("interview_id", interviewID),
				zap.Error(err),
			)
		}
	}

	schedule := &domain.Schedule{
		ScheduleID:       update.ID,
		ApplicationID:    strings.TrimSpace(update.ApplicationID),
		InterviewStageID: strings.TrimSpace(update.InterviewStageID),
		CandidateID:      strings.TrimSpace(update.CandidateID),
		Status:           status,
		UpdatedAt:        now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpsertSchedule(ctx, tx, schedule); err != nil {
			return err
		}
		if err := s.repo.DeleteEvents(ctx, tx, update.ID); err != nil {
			return err
		}
		for _, event := range events {
			if err := s.repo.InsertEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		for _, assignment := range assignments {
			if err := s.repo.InsertAssignment(ctx, tx, assignment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.ReconcileResult{}, apperr.Storage("schedule.Replace", err)
	}

	result.EventsWritten = len(events)
	result.AssignmentsWritten = len(assignments)
	log.Info("schedule reconciled",
		zap.Int("events", result.EventsWritten),
		zap.Int("events_skipped", result.EventsSkipped),
		zap.Int("assignments", result.AssignmentsWritten),
	)
	return result, nil
}

func (s *Service) EventDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	const op = "schedule.EventDetails"
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, apperr.MalformedInput(op, domain.ErrEventNotFound)
	}
	details, err := s.repo.FindEventDetails(ctx, s.db, eventID)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	if details == nil {
		return nil, apperr.NotFound(op, domain.ErrEventNotFound)
	}
	return details, nil
}

func toEvent(scheduleID, eventID, interviewID string, p domain.EventPayload) *domain.Event {
	return &domain.Event{
		EventID:              eventID,
		ScheduleID:           scheduleID,
		InterviewID:          interviewID,
		CreatedAt:            domain.ParseTimestamp(p.CreatedAt),
		UpdatedAt:            domain.ParseTimestamp(p.UpdatedAt),
		StartTime:            domain.ParseTimestamp(p.StartTime),
		EndTime:              domain.ParseTimestamp(p.EndTime),
		FeedbackLink:         p.FeedbackLink,
		Location:             p.Location,
		MeetingLink:          p.MeetingLink,
		HasSubmittedFeedback: p.HasSubmittedFeedback,
		ExtraData:            jsonOrEmpty(p.ExtraData),
	}
}

func toAssignments(log *zap.Logger, eventID string, interviewers []domain.InterviewerPayload) []*domain.Assignment {
	out := make([]*domain.Assignment, 0, len(interviewers))
	seen := make(map[string]struct{}, len(interviewers))
	for _, p := range interviewers {
		interviewerID := strings.TrimSpace(p.ID)
		if interviewerID == "" {
			log.Warn("skipping interviewer without id", zap.String("event_id", eventID))
			continue
		}
		if _, dup := seen[interviewerID]; dup {
			continue
		}
		seen[interviewerID] = struct{}{}

		a := &domain.Assignment{
			EventID:              eventID,
			InterviewerID:        interviewerID,
			FirstName:            p.FirstName,
			LastName:             p.LastName,
			Email:                strings.TrimSpace(p.Email),
			GlobalRole:           p.GlobalRole,
			TrainingRole:         p.TrainingRole,
			IsEnabled:            p.IsEnabled == nil || *p.IsEnabled,
			ManagerID:            p.ManagerID,
			TrainingPath:         datatypes.JSON(`{}`),
			InterviewerUpdatedAt: domain.ParseTimestamp(p.UpdatedAt),
		}
		if pool := p.InterviewerPool; pool != nil {
			a.InterviewerPoolID = pool.ID
			a.InterviewerPoolTitle = pool.Title
			a.InterviewerPoolIsArchived = pool.IsArchived != nil && *pool.IsArchived
			a.TrainingPath = jsonOrEmpty(pool.TrainingPath)
		}
		out = append(out, a)
	}
	return out
}

// jsonOrEmpty keeps valid non-null JSON and substitutes an empty object otherwise.
func jsonOrEmpty(raw json.RawMessage) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || !json.Valid([]byte(trimmed)) {
		return datatypes.JSON(`{}`)
	}
	return datatypes.JSON(trimmed)
}
