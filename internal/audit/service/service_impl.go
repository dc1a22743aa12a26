package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	auditdomain "github.com/smallbiznis/feedbackrelay/internal/audit/domain"
	"github.com/smallbiznis/feedbackrelay/internal/audit/masking"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 250
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Record appends the payload to the audit log. The log is append-only.
func (s *Service) Record(ctx context.Context, in auditdomain.RecordInput) error {
	const op = "audit.Record"
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return apperr.MalformedInput(op, auditdomain.ErrInvalidAction)
	}
	if len(in.Payload) == 0 {
		return apperr.MalformedInput(op, auditdomain.ErrEmptyPayload)
	}

	payload, err := masking.MaskPayload(in.Payload)
	if err != nil {
		return apperr.MalformedInput(op, err)
	}

	entry := auditdomain.WebhookPayload{
		ID:         s.genID.Generate(),
		ScheduleID: normalize(in.ScheduleID),
		Action:     action,
		Payload:    datatypes.JSON(payload),
		ReceivedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write webhook audit entry", zap.String("action", action), zap.Error(err))
		return apperr.Storage(op, err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) ([]auditdomain.WebhookPayload, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		ScheduleID: req.ScheduleID,
		Limit:      limit,
	})
	if err != nil {
		return nil, apperr.Storage("audit.List", err)
	}

	out := make([]auditdomain.WebhookPayload, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func normalize(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
