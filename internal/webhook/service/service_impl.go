package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	auditdomain "github.com/smallbiznis/feedbackrelay/internal/audit/domain"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	scheduledomain "github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
	"github.com/smallbiznis/feedbackrelay/internal/signature"
	"github.com/smallbiznis/feedbackrelay/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	Audit     auditdomain.Service
	Schedules scheduledomain.Service
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	secret    string
	audit     auditdomain.Service
	schedules scheduledomain.Service
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("webhook.service"),
		secret:    p.Config.Ashby.WebhookSecret,
		audit:     p.Audit,
		schedules: p.Schedules,
		metrics:   p.Metrics,
	}
}

// Ingest parses, answers pings, verifies, audits and then processes the
// webhook, in that order. Only verified, well-formed payloads are audited.
func (s *Service) Ingest(ctx context.Context, body []byte, supplied string) (domain.Result, error) {
	const op = "webhook.Ingest"
	log := logger.WithContext(ctx, s.log)

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		s.metrics.RecordWebhook(ctx, "", "malformed")
		return domain.Result{}, apperr.MalformedInput(op, domain.ErrInvalidJSON)
	}
	if signature.IsPing(doc) {
		log.Info("webhook ping received")
		s.metrics.RecordWebhook(ctx, "ping", "ok")
		return domain.Result{Outcome: domain.OutcomePing, Action: "ping"}, nil
	}

	supplied = strings.TrimSpace(supplied)
	if supplied == "" {
		s.metrics.RecordWebhook(ctx, "", "unauthenticated")
		return domain.Result{}, apperr.Authentication(op, signature.ErrMissingSignature)
	}
	if !signature.Verify(s.secret, body, supplied) {
		log.Warn("webhook signature mismatch")
		s.metrics.RecordWebhook(ctx, "", "unauthenticated")
		return domain.Result{}, apperr.Authentication(op, signature.ErrInvalidSignature)
	}

	env, err := domain.DecodeEnvelope(body)
	if err != nil {
		s.metrics.RecordWebhook(ctx, "", "malformed")
		return domain.Result{}, apperr.MalformedInput(op, err)
	}
	result := domain.Result{Action: env.Action}
	if env.Data.InterviewSchedule != nil {
		result.ScheduleID = env.Data.InterviewSchedule.ID
	}
	log = log.With(zap.String("action", env.Action), zap.String("schedule_id", result.ScheduleID))

	if err := s.audit.Record(ctx, auditdomain.RecordInput{
		ScheduleID: result.ScheduleID,
		Action:     env.Action,
		Payload:    body,
	}); err != nil {
		s.metrics.RecordWebhook(ctx, env.Action, "audit_failed")
		return result, err
	}

	if env.Action != domain.ActionInterviewScheduleUpdate {
		log.Info("ignoring webhook action")
		s.metrics.RecordWebhook(ctx, env.Action, "ignored")
		result.Outcome = domain.OutcomeIgnored
		return result, nil
	}
	if env.Data.InterviewSchedule == nil {
		log.Warn("schedule update without interviewSchedule")
		s.metrics.RecordWebhook(ctx, env.Action, "ignored")
		result.Outcome = domain.OutcomeIgnored
		return result, nil
	}

	reconciled, err := s.schedules.Reconcile(ctx, *env.Data.InterviewSchedule)
	if err != nil {
		log.Error("schedule reconciliation failed", zap.Error(err))
		s.metrics.RecordWebhook(ctx, env.Action, "failed")
		return result, err
	}
	log.Info("schedule reconciled",
		zap.String("outcome", string(reconciled.Outcome)),
		zap.Int("events_written", reconciled.EventsWritten),
		zap.Int("assignments_written", reconciled.AssignmentsWritten),
	)
	s.metrics.RecordWebhook(ctx, env.Action, "processed")
	result.Outcome = domain.OutcomeProcessed
	result.Reconcile = &reconciled
	return result, nil
}
