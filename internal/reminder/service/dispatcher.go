package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/cache"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	"github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	outcomeSent      = "sent"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

type DispatcherParams struct {
	fx.In

	Log       *zap.Logger
	Selector  domain.Selector
	Tracker   domain.Tracker
	Ashby     ashby.Client
	Slack     slack.Provider
	JobTitles cache.JobTitleCache
	Renderer  *slackui.Renderer
	Metrics   *metrics.Metrics `optional:"true"`
}

type Dispatcher struct {
	log       *zap.Logger
	selector  domain.Selector
	tracker   domain.Tracker
	ashby     ashby.Client
	slack     slack.Provider
	jobTitles cache.JobTitleCache
	renderer  *slackui.Renderer
	metrics   *metrics.Metrics
}

func NewDispatcher(p DispatcherParams) domain.Dispatcher {
	return &Dispatcher{
		log:       p.Log.Named("reminder.dispatcher"),
		selector:  p.Selector,
		tracker:   p.Tracker,
		ashby:     p.Ashby,
		slack:     p.Slack,
		jobTitles: p.JobTitles,
		renderer:  p.Renderer,
		metrics:   p.Metrics,
	}
}

// SendDueReminders delivers every due reminder. A failing pair is logged and
// counted; the rest of the batch still runs.
func (d *Dispatcher) SendDueReminders(ctx context.Context) (domain.BatchResult, error) {
	var result domain.BatchResult
	log := logger.WithContext(ctx, d.log)

	pairs, err := d.selector.SelectDue(ctx)
	if err != nil {
		return result, err
	}
	if len(pairs) == 0 {
		log.Info("no reminders due")
		return result, nil
	}
	log.Info("processing reminders", zap.Int("count", len(pairs)))

	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, dup := seen[pair.Key()]; dup {
			continue
		}
		seen[pair.Key()] = struct{}{}
		result.Due++

		pairLog := log.With(
			zap.String("event_id", pair.EventID),
			zap.String("interviewer_id", pair.InterviewerID),
		)
		outcome, err := d.sendOne(ctx, pairLog, pair)
		d.metrics.RecordReminder(ctx, outcome)
		switch outcome {
		case outcomeSent:
			result.Sent++
			pairLog.Info("feedback reminder sent")
		case outcomeDuplicate:
			result.Duplicate++
			pairLog.Info("reminder already delivered")
		default:
			result.Failed++
			pairLog.Error("failed to send reminder", zap.Error(err))
		}
	}

	log.Info("reminder batch complete",
		zap.Int("due", result.Due),
		zap.Int("sent", result.Sent),
		zap.Int("duplicate", result.Duplicate),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, log *zap.Logger, pair domain.DuePair) (string, error) {
	if strings.TrimSpace(pair.CandidateID) == "" {
		return outcomeFailed, apperr.MalformedInput("reminder.Send", domain.ErrMissingCandidate)
	}
	candidate, err := d.ashby.CandidateInfo(ctx, pair.CandidateID)
	if err != nil {
		return outcomeFailed, fmt.Errorf("candidate lookup: %w", err)
	}
	if candidate == nil {
		return outcomeFailed, apperr.NotFound("reminder.Send", domain.ErrMissingCandidate)
	}

	jobTitle := d.jobTitle(ctx, log, pair.JobID)
	fileID := d.registerResume(ctx, log, pair.CandidateID, candidate)

	start := pair.StartTime
	blocks := d.renderer.ReminderMessage(slackui.ReminderInput{
		Candidate: candidate,
		Interview: slackui.Interview{
			Title:             pair.InterviewTitle,
			StartTime:         &start,
			EndTime:           pair.EndTime,
			MeetingLink:       pair.MeetingLink,
			Location:          pair.Location,
			FeedbackLink:      pair.FeedbackLink,
			InstructionsPlain: pair.InstructionsPlain,
		},
		Context: slackui.FeedbackContext{
			EventID:          pair.EventID,
			FormDefinitionID: pair.FeedbackFormDefinitionID,
			ApplicationID:    pair.ApplicationID,
			InterviewerID:    pair.InterviewerID,
			CandidateID:      candidate.ID,
		},
		FileID:   fileID,
		JobTitle: jobTitle,
	})

	receipt, err := d.slack.PostMessage(ctx, slack.Message{
		Channel: pair.SlackUserID,
		Text:    fmt.Sprintf("Interview feedback reminder for %s", candidate.Name),
		Blocks:  blocks,
	})
	if err != nil {
		return outcomeFailed, fmt.Errorf("post reminder: %w", err)
	}

	inserted, err := d.tracker.RecordSent(ctx, domain.SentReceipt{
		EventID:       pair.EventID,
		InterviewerID: pair.InterviewerID,
		SlackUserID:   pair.SlackUserID,
		ChannelID:     receipt.Channel,
		MessageTS:     receipt.TS,
	})
	if err != nil {
		return outcomeFailed, fmt.Errorf("record delivery: %w", err)
	}
	if !inserted {
		return outcomeDuplicate, nil
	}
	return outcomeSent, nil
}

// jobTitle is optional; lookup failures leave the position line out.
func (d *Dispatcher) jobTitle(ctx context.Context, log *zap.Logger, jobID string) string {
	if strings.TrimSpace(jobID) == "" {
		return ""
	}
	if title, ok := d.jobTitles.GetJobTitle(jobID); ok {
		return title
	}
	job, err := d.ashby.JobInfo(ctx, jobID)
	if err != nil {
		log.Warn("job lookup failed", zap.String("job_id", jobID), zap.Error(err))
		return ""
	}
	if job == nil {
		return ""
	}
	d.jobTitles.SetJobTitle(jobID, job.Title)
	return job.Title
}

// registerResume exposes the candidate's resume as a remote file. Any
// failure leaves the resume out of the reminder.
func (d *Dispatcher) registerResume(ctx context.Context, log *zap.Logger, candidateID string, c *ashby.Candidate) string {
	if c.ResumeFileHandle == nil || c.ResumeFileHandle.Handle == "" {
		return ""
	}
	url, err := d.ashby.FileURL(ctx, c.ResumeFileHandle.Handle)
	if err != nil {
		log.Warn("resume url lookup failed", zap.Error(err))
		return ""
	}
	if url == "" {
		return ""
	}
	fileID, err := d.slack.AddRemoteFile(ctx, slack.RemoteFile{
		ExternalID: "resume_" + candidateID,
		URL:        url,
		Title:      c.ResumeFileHandle.Name,
	})
	if err != nil {
		log.Warn("resume registration failed", zap.Error(err))
		return ""
	}
	return fileID
}
