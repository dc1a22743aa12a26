package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	draftdomain "github.com/smallbiznis/feedbackrelay/internal/draft/domain"
	"github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ProcessorParams struct {
	fx.In

	Log       *zap.Logger
	Catalog   catalogdomain.Service
	Ashby     ashby.Client
	Slack     slack.Provider
	Drafts    draftdomain.Service
	Finalizer domain.Finalizer
	Metrics   *metrics.Metrics `optional:"true"`
}

type Processor struct {
	log       *zap.Logger
	catalog   catalogdomain.Service
	ashby     ashby.Client
	slack     slack.Provider
	drafts    draftdomain.Service
	finalizer domain.Finalizer
	metrics   *metrics.Metrics
}

func NewProcessor(p ProcessorParams) domain.Processor {
	return &Processor{
		log:       p.Log.Named("feedback.processor"),
		catalog:   p.Catalog,
		ashby:     p.Ashby,
		slack:     p.Slack,
		drafts:    p.Drafts,
		finalizer: p.Finalizer,
		metrics:   p.Metrics,
	}
}

// Process submits the feedback. On failure the entered values are kept as
// the draft and the reviewer is told what went wrong.
func (p *Processor) Process(ctx context.Context, sub domain.Submission) error {
	log := logger.WithContext(ctx, p.log).With(
		zap.String("event_id", sub.Context.EventID),
		zap.String("interviewer_id", sub.Context.InterviewerID),
		zap.String("correlation_id", sub.CorrelationID),
	)

	if err := p.submit(ctx, sub); err != nil {
		p.metrics.RecordSubmission(ctx, "failed")
		log.Error("failed to process feedback submission", zap.Error(err))
		p.keepDraft(ctx, log, sub)
		p.notify(ctx, log, sub.SlackUserID, domain.FailureMessagePrefix+err.Error())
		return err
	}

	if err := p.finalizer.Finalize(ctx, sub.Context.EventID, sub.Context.InterviewerID); err != nil {
		log.Warn("feedback finalization incomplete", zap.Error(err))
	}
	p.metrics.RecordSubmission(ctx, "submitted")
	p.notify(ctx, log, sub.SlackUserID, domain.SuccessMessage)
	log.Info("feedback submitted")
	return nil
}

func (p *Processor) submit(ctx context.Context, sub domain.Submission) error {
	const op = "feedback.Submit"
	c := sub.Context
	if c.EventID == "" || c.InterviewerID == "" || c.FormDefinitionID == "" || c.ApplicationID == "" {
		return apperr.MalformedInput(op, domain.ErrMissingSubmission)
	}

	form, err := p.catalog.GetFormDefinition(ctx, c.FormDefinitionID)
	if err != nil {
		return fmt.Errorf("load form definition: %w", err)
	}
	fields, err := sub.State.FieldSubmissions(form.FieldTypes())
	if err != nil {
		return apperr.MalformedInput(op, err)
	}

	return p.ashby.SubmitFeedback(ctx, ashby.FeedbackSubmission{
		FormDefinitionID: c.FormDefinitionID,
		ApplicationID:    c.ApplicationID,
		UserID:           c.InterviewerID,
		InterviewEventID: c.EventID,
		FieldSubmissions: fields,
	})
}

func (p *Processor) keepDraft(ctx context.Context, log *zap.Logger, sub domain.Submission) {
	if sub.Context.EventID == "" || sub.Context.InterviewerID == "" {
		return
	}
	if err := p.drafts.Save(ctx, sub.Context.EventID, sub.Context.InterviewerID, sub.State.DraftValues()); err != nil {
		log.Warn("failed to keep draft after submission failure", zap.Error(err))
	}
}

// notify is best-effort; a failed notice never replaces the primary outcome.
func (p *Processor) notify(ctx context.Context, log *zap.Logger, slackUserID, text string) {
	if slackUserID == "" {
		return
	}
	if _, err := p.slack.PostMessage(ctx, slack.Message{Channel: slackUserID, Text: text}); err != nil {
		log.Warn("failed to notify reviewer", zap.Error(err))
	}
}
