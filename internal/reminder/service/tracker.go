package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TrackerParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Tracker struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func NewTracker(p TrackerParams) domain.Tracker {
	return &Tracker{
		db:    p.DB,
		log:   p.Log.Named("reminder.tracker"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// RecordSent stores the delivery. A second record for the same pair is
// ignored and reported as false.
func (t *Tracker) RecordSent(ctx context.Context, receipt domain.SentReceipt) (bool, error) {
	const op = "reminder.RecordSent"
	if strings.TrimSpace(receipt.EventID) == "" || strings.TrimSpace(receipt.InterviewerID) == "" {
		return false, apperr.MalformedInput(op, domain.ErrMissingPair)
	}
	inserted, err := t.repo.InsertDelivery(ctx, t.db, &domain.Delivery{
		EventID:        receipt.EventID,
		InterviewerID:  receipt.InterviewerID,
		SlackUserID:    receipt.SlackUserID,
		SlackChannelID: receipt.ChannelID,
		SlackMessageTS: receipt.MessageTS,
		SentAt:         t.clock.Now(),
	})
	if err != nil {
		return false, apperr.Storage(op, err)
	}
	return inserted, nil
}

func (t *Tracker) MarkSubmitted(ctx context.Context, eventID, interviewerID string) error {
	const op = "reminder.MarkSubmitted"
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(interviewerID) == "" {
		return apperr.MalformedInput(op, domain.ErrMissingPair)
	}
	n, err := t.repo.MarkSubmitted(ctx, t.db, eventID, interviewerID, t.clock.Now())
	if err != nil {
		return apperr.Storage(op, err)
	}
	if n == 0 {
		t.log.Debug("no pending reminder to mark submitted",
			zap.String("event_id", eventID),
			zap.String("interviewer_id", interviewerID),
		)
	}
	return nil
}
