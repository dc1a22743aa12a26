package service

import (
	"context"
	"errors"
	"fmt"

	draftdomain "github.com/smallbiznis/feedbackrelay/internal/draft/domain"
	"github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	reminderdomain "github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type FinalizerParams struct {
	fx.In

	Log     *zap.Logger
	Tracker reminderdomain.Tracker
	Drafts  draftdomain.Service
}

type Finalizer struct {
	log     *zap.Logger
	tracker reminderdomain.Tracker
	drafts  draftdomain.Service
}

func NewFinalizer(p FinalizerParams) domain.Finalizer {
	return &Finalizer{
		log:     p.Log.Named("feedback.finalizer"),
		tracker: p.Tracker,
		drafts:  p.Drafts,
	}
}

// Finalize marks the reminder submitted and removes the draft. The draft is
// removed even when marking fails; both failures are returned joined.
func (f *Finalizer) Finalize(ctx context.Context, eventID, interviewerID string) error {
	var errs []error
	if err := f.tracker.MarkSubmitted(ctx, eventID, interviewerID); err != nil {
		f.log.Warn("failed to mark reminder submitted",
			zap.String("event_id", eventID),
			zap.String("interviewer_id", interviewerID),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("mark submitted: %w", err))
	}
	if err := f.drafts.Delete(ctx, eventID, interviewerID); err != nil {
		f.log.Warn("failed to delete draft",
			zap.String("event_id", eventID),
			zap.String("interviewer_id", interviewerID),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("delete draft: %w", err))
	}
	return errors.Join(errs...)
}
