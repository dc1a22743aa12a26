package service

import (
	"context"
	"testing"
	"time"

	catalogmocks "github.com/smallbiznis/feedbackrelay/internal/catalog/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/cache"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	draftrepo "github.com/smallbiznis/feedbackrelay/internal/draft/repository"
	draftservice "github.com/smallbiznis/feedbackrelay/internal/draft/service"
	"github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	ashbymocks "github.com/smallbiznis/feedbackrelay/internal/providers/ashby/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	slackmocks "github.com/smallbiznis/feedbackrelay/internal/providers/slack/mocks"
	reminderrepo "github.com/smallbiznis/feedbackrelay/internal/reminder/repository"
	reminderservice "github.com/smallbiznis/feedbackrelay/internal/reminder/service"
	scheduledomain "github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
	schedulerepo "github.com/smallbiznis/feedbackrelay/internal/schedule/repository"
	scheduleservice "github.com/smallbiznis/feedbackrelay/internal/schedule/service"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"github.com/smallbiznis/feedbackrelay/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// Walks one interview from the schedule webhook to a submitted scorecard.
func TestReminderToSubmissionLifecycle(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	db := dbtest.Open(t)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	log := zap.NewNop()

	catalog := catalogmocks.NewMockService(ctrl)
	ashbyClient := ashbymocks.NewMockClient(ctrl)
	slackProvider := slackmocks.NewMockProvider(ctrl)

	require.NoError(t, db.Exec(
		`INSERT INTO interviews (interview_id, title, job_id, feedback_form_definition_id, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"int-1", "Systems Design", "job-1", "form-1", now).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO slack_users (slack_user_id, email, updated_at) VALUES (?, ?, ?)`,
		"U1", "ada@example.com", now).Error)

	schedules := scheduleservice.New(scheduleservice.Params{
		DB: db, Log: log, Clock: clk, Repo: schedulerepo.Provide(), Catalog: catalog,
	})
	tracker := reminderservice.NewTracker(reminderservice.TrackerParams{
		DB: db, Log: log, Clock: clk, Repo: reminderrepo.Provide(),
	})
	dispatcher := reminderservice.NewDispatcher(reminderservice.DispatcherParams{
		Log:       log,
		Selector:  reminderservice.NewSelector(reminderservice.SelectorParams{DB: db, Clock: clk, Repo: reminderrepo.Provide()}),
		Tracker:   tracker,
		Ashby:     ashbyClient,
		Slack:     slackProvider,
		JobTitles: cache.NewJobTitleCache(),
		Renderer:  slackui.NewRenderer(log),
	})
	drafts := draftservice.New(draftservice.Params{DB: db, Log: log, Clock: clk, Repo: draftrepo.Provide()})
	processor := NewProcessor(ProcessorParams{
		Log:       log,
		Catalog:   catalog,
		Ashby:     ashbyClient,
		Slack:     slackProvider,
		Drafts:    drafts,
		Finalizer: NewFinalizer(FinalizerParams{Log: log, Tracker: tracker, Drafts: drafts}),
	})

	catalog.EXPECT().RefreshInterviewType(gomock.Any(), "int-1").Return(nil)
	start := now.Add(10 * time.Minute)
	_, err := schedules.Reconcile(ctx, scheduledomain.ScheduleUpdate{
		ID:            "sched-1",
		Status:        "Scheduled",
		ApplicationID: "app-1",
		CandidateID:   "cand-1",
		InterviewEvents: []scheduledomain.EventPayload{{
			ID:          "ev-1",
			InterviewID: "int-1",
			StartTime:   start.Format(time.RFC3339),
			EndTime:     start.Add(time.Hour).Format(time.RFC3339),
			Interviewers: []scheduledomain.InterviewerPayload{
				{ID: "u-1", FirstName: "Ada", Email: "Ada@Example.com"},
			},
		}},
	})
	require.NoError(t, err)

	ashbyClient.EXPECT().CandidateInfo(gomock.Any(), "cand-1").Return(&ashby.Candidate{ID: "cand-1", Name: "Jane Doe"}, nil)
	ashbyClient.EXPECT().JobInfo(gomock.Any(), "job-1").Return(&ashby.Job{ID: "job-1", Title: "Staff Engineer"}, nil)
	slackProvider.EXPECT().PostMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg slack.Message) (slack.Receipt, error) {
			assert.Equal(t, "U1", msg.Channel)
			assert.Equal(t, "Interview feedback reminder for Jane Doe", msg.Text)
			return slack.Receipt{Channel: "D1", TS: "1714554000.0001"}, nil
		})

	batch, err := dispatcher.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Sent)
	assert.Equal(t, int64(1), dbtest.Count(t, db, "feedback_reminders_sent",
		"event_id = ? AND interviewer_id = ? AND submitted_at IS NULL", "ev-1", "u-1"))

	require.NoError(t, drafts.Save(ctx, "ev-1", "u-1", map[string]any{"notes": "half done"}))

	catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(scorecardForm(), nil)
	ashbyClient.EXPECT().SubmitFeedback(gomock.Any(), gomock.Any()).Return(nil)
	slackProvider.EXPECT().PostMessage(gomock.Any(), slack.Message{Channel: "U1", Text: domain.SuccessMessage}).
		Return(slack.Receipt{Channel: "D1", TS: "1714554600.0002"}, nil)

	clk.Advance(15 * time.Minute)
	require.NoError(t, processor.Process(ctx, scorecardSubmission()))

	assert.Equal(t, int64(1), dbtest.Count(t, db, "feedback_reminders_sent",
		"event_id = ? AND interviewer_id = ? AND submitted_at IS NOT NULL", "ev-1", "u-1"))
	assert.Equal(t, int64(0), dbtest.Count(t, db, "feedback_drafts", "event_id = ?", "ev-1"))

	again, err := dispatcher.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Due, "unexpected batch %+v", again)
}
