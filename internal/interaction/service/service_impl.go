package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	draftdomain "github.com/smallbiznis/feedbackrelay/internal/draft/domain"
	feedbackdomain "github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	"github.com/smallbiznis/feedbackrelay/internal/interaction/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	scheduledomain "github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"github.com/smallbiznis/feedbackrelay/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	openFailedMessage = "❌ *Could not open the feedback form*\n\n"
	queueBusyMessage  = "The relay is busy right now. Your answers were kept as a draft, please submit again in a moment."
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Catalog   catalogdomain.Service
	Drafts    draftdomain.Service
	Schedules scheduledomain.Service
	Ashby     ashby.Client
	Slack     slack.Provider
	Renderer  *slackui.Renderer
	Queue     feedbackdomain.Queue
}

type Service struct {
	log       *zap.Logger
	catalog   catalogdomain.Service
	drafts    draftdomain.Service
	schedules scheduledomain.Service
	ashby     ashby.Client
	slack     slack.Provider
	renderer  *slackui.Renderer
	queue     feedbackdomain.Queue
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("interaction.service"),
		catalog:   p.Catalog,
		drafts:    p.Drafts,
		schedules: p.Schedules,
		ashby:     p.Ashby,
		slack:     p.Slack,
		renderer:  p.Renderer,
		queue:     p.Queue,
	}
}

// Handle dispatches one callback. Failures past payload decoding are logged
// and reported to the reviewer; the callback itself is always acknowledged.
func (s *Service) Handle(ctx context.Context, payload *domain.Payload) error {
	if payload == nil {
		return apperr.MalformedInput("interaction.Handle", domain.ErrMissingPayload)
	}
	log := logger.WithContext(ctx, s.log).With(
		zap.String("type", payload.Type),
		zap.String("slack_user_id", payload.User.ID),
	)

	switch payload.Type {
	case domain.TypeBlockActions:
		s.handleActions(ctx, log, payload)
	case domain.TypeViewSubmission:
		s.handleSubmission(ctx, log, payload)
	case domain.TypeViewClosed:
		callbackID := ""
		if payload.View != nil {
			callbackID = payload.View.CallbackID
		}
		log.Info("modal closed", zap.String("callback_id", callbackID))
	default:
		log.Debug("ignoring interaction")
	}
	return nil
}

func (s *Service) handleActions(ctx context.Context, log *zap.Logger, payload *domain.Payload) {
	for _, action := range payload.Actions {
		switch {
		case action.ActionID == slackui.ActionOpenFeedbackModal:
			s.openModal(ctx, log, payload, action.Value)
		case strings.HasPrefix(action.BlockID, slackui.FieldBlockPrefix) && payload.View != nil:
			s.autosave(ctx, log, payload.View)
		default:
			log.Debug("ignoring action", zap.String("action_id", action.ActionID), zap.String("block_id", action.BlockID))
		}
	}
}

func (s *Service) openModal(ctx context.Context, log *zap.Logger, payload *domain.Payload, value string) {
	fc, err := slackui.DecodeFeedbackContext(value)
	if err != nil {
		log.Error("invalid feedback button context", zap.Error(err))
		return
	}
	log = log.With(zap.String("event_id", fc.EventID), zap.String("interviewer_id", fc.InterviewerID))

	form, err := s.catalog.GetFormDefinition(ctx, fc.FormDefinitionID)
	if err != nil {
		log.Error("form definition unavailable, modal not opened",
			zap.String("form_definition_id", fc.FormDefinitionID),
			zap.Error(err),
		)
		s.notify(ctx, log, payload.User.ID, openFailedMessage+err.Error())
		return
	}

	draft, err := s.drafts.Load(ctx, fc.EventID, fc.InterviewerID)
	if err != nil {
		log.Warn("failed to load draft", zap.Error(err))
	}

	var candidate *ashby.Candidate
	if fc.CandidateID != "" {
		candidate, err = s.ashby.CandidateInfo(ctx, fc.CandidateID)
		if err != nil {
			log.Error("candidate lookup failed, modal not opened", zap.Error(err))
			s.notify(ctx, log, payload.User.ID, openFailedMessage+err.Error())
			return
		}
	}

	view := s.renderer.FeedbackModal(slackui.ModalInput{
		Form:      form,
		Candidate: candidate,
		Interview: s.interview(ctx, log, fc.EventID),
		Context:   fc,
		Draft:     draft,
	})
	if err := s.slack.OpenView(ctx, payload.TriggerID, view); err != nil {
		log.Error("failed to open feedback modal", zap.Error(err))
		s.notify(ctx, log, payload.User.ID, openFailedMessage+err.Error())
		return
	}
	log.Info("feedback modal opened")
}

// interview falls back to an untitled event when details are missing.
func (s *Service) interview(ctx context.Context, log *zap.Logger, eventID string) slackui.Interview {
	details, err := s.schedules.EventDetails(ctx, eventID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			log.Warn("event details unavailable", zap.Error(err))
		}
		return slackui.Interview{Title: "Interview"}
	}
	return slackui.Interview{
		Title:             details.InterviewTitle,
		StartTime:         details.StartTime,
		EndTime:           details.EndTime,
		MeetingLink:       details.MeetingLink,
		InstructionsPlain: details.InstructionsPlain,
	}
}

func (s *Service) autosave(ctx context.Context, log *zap.Logger, view *domain.View) {
	fc, err := slackui.DecodeFeedbackContext(view.PrivateMetadata)
	if err != nil {
		log.Warn("autosave without feedback context", zap.Error(err))
		return
	}
	if err := s.drafts.Save(ctx, fc.EventID, fc.InterviewerID, view.State.Values.DraftValues()); err != nil {
		log.Error("autosave failed", zap.String("event_id", fc.EventID), zap.Error(err))
		return
	}
	log.Debug("draft autosaved", zap.String("event_id", fc.EventID))
}

func (s *Service) handleSubmission(ctx context.Context, log *zap.Logger, payload *domain.Payload) {
	view := payload.View
	if view == nil || view.CallbackID != slackui.CallbackSubmitFeedback {
		log.Debug("ignoring view submission")
		return
	}
	fc, err := slackui.DecodeFeedbackContext(view.PrivateMetadata)
	if err != nil {
		log.Error("submission without feedback context", zap.Error(err))
		return
	}

	ctx, cid := correlation.EnsureCorrelationID(ctx)
	sub := feedbackdomain.Submission{
		Context:       fc,
		SlackUserID:   payload.User.ID,
		State:         view.State.Values,
		CorrelationID: cid,
	}
	if err := s.queue.Enqueue(ctx, sub); err != nil {
		log.Error("failed to enqueue submission", zap.String("event_id", fc.EventID), zap.Error(err))
		if saveErr := s.drafts.Save(ctx, fc.EventID, fc.InterviewerID, view.State.Values.DraftValues()); saveErr != nil {
			log.Warn("failed to keep draft for rejected submission", zap.Error(saveErr))
		}
		s.notify(ctx, log, payload.User.ID, feedbackdomain.FailureMessagePrefix+queueBusyMessage)
		return
	}
	log.Info("feedback submission queued", zap.String("event_id", fc.EventID), zap.String("correlation_id", cid))
}

func (s *Service) notify(ctx context.Context, log *zap.Logger, slackUserID, text string) {
	if slackUserID == "" {
		return
	}
	if _, err := s.slack.PostMessage(ctx, slack.Message{Channel: slackUserID, Text: text}); err != nil {
		log.Warn("failed to notify reviewer", zap.Error(err))
	}
}
