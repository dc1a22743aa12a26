package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/cache"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	ashbymocks "github.com/smallbiznis/feedbackrelay/internal/providers/ashby/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	slackmocks "github.com/smallbiznis/feedbackrelay/internal/providers/slack/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"github.com/smallbiznis/feedbackrelay/internal/reminder/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type dispatcherFixture struct {
	selector *mocks.MockSelector
	tracker  *mocks.MockTracker
	ashby    *ashbymocks.MockClient
	slack    *slackmocks.MockProvider
	titles   cache.JobTitleCache
	d        domain.Dispatcher
}

func newDispatcherFixture(t *testing.T) dispatcherFixture {
	ctrl := gomock.NewController(t)
	f := dispatcherFixture{
		selector: mocks.NewMockSelector(ctrl),
		tracker:  mocks.NewMockTracker(ctrl),
		ashby:    ashbymocks.NewMockClient(ctrl),
		slack:    slackmocks.NewMockProvider(ctrl),
		titles:   cache.NewJobTitleCache(),
	}
	f.d = NewDispatcher(DispatcherParams{
		Log:       zap.NewNop(),
		Selector:  f.selector,
		Tracker:   f.tracker,
		Ashby:     f.ashby,
		Slack:     f.slack,
		JobTitles: f.titles,
		Renderer:  slackui.NewRenderer(zap.NewNop()),
	})
	return f
}

func duePair(eventID, interviewerID, candidateID string) domain.DuePair {
	return domain.DuePair{
		EventID:                  eventID,
		StartTime:                baseNow.Add(10 * time.Minute),
		InterviewerID:            interviewerID,
		SlackUserID:              "U-" + interviewerID,
		InterviewTitle:           "Onsite",
		FeedbackFormDefinitionID: "form-1",
		CandidateID:              candidateID,
		ApplicationID:            "app-1",
		JobID:                    "job-1",
	}
}

func TestSendDueRemindersDeliversAndRecords(t *testing.T) {
	f := newDispatcherFixture(t)
	pair := duePair("ev-1", "u1", "cand-1")

	f.selector.EXPECT().SelectDue(gomock.Any()).Return([]domain.DuePair{pair}, nil)
	f.ashby.EXPECT().CandidateInfo(gomock.Any(), "cand-1").Return(&ashby.Candidate{
		ID:               "cand-1",
		Name:             "Jane Doe",
		ResumeFileHandle: &ashby.FileHandle{Handle: "fh-1", Name: "jane.pdf"},
	}, nil)
	f.ashby.EXPECT().JobInfo(gomock.Any(), "job-1").Return(&ashby.Job{ID: "job-1", Title: "Staff Engineer"}, nil)
	f.ashby.EXPECT().FileURL(gomock.Any(), "fh-1").Return("https://files.example.com/jane.pdf", nil)
	f.slack.EXPECT().AddRemoteFile(gomock.Any(), slack.RemoteFile{
		ExternalID: "resume_cand-1",
		URL:        "https://files.example.com/jane.pdf",
		Title:      "jane.pdf",
	}).Return("F1", nil)
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg slack.Message) (slack.Receipt, error) {
		assert.Equal(t, "U-u1", msg.Channel)
		assert.Equal(t, "Interview feedback reminder for Jane Doe", msg.Text)
		blocks, ok := msg.Blocks.([]slackui.Block)
		require.True(t, ok)
		assert.NotEmpty(t, blocks)
		return slack.Receipt{Channel: "D1", TS: "111.222"}, nil
	})
	f.tracker.EXPECT().RecordSent(gomock.Any(), domain.SentReceipt{
		EventID: "ev-1", InterviewerID: "u1", SlackUserID: "U-u1", ChannelID: "D1", MessageTS: "111.222",
	}).Return(true, nil)

	result, err := f.d.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BatchResult{Due: 1, Sent: 1}, result)

	title, ok := f.titles.GetJobTitle("job-1")
	assert.True(t, ok)
	assert.Equal(t, "Staff Engineer", title)
}

func TestSendDueRemindersIsolatesFailures(t *testing.T) {
	f := newDispatcherFixture(t)
	f.titles.SetJobTitle("job-1", "Cached Title")

	f.selector.EXPECT().SelectDue(gomock.Any()).Return([]domain.DuePair{
		duePair("ev-1", "u1", "cand-bad"),
		duePair("ev-2", "u2", "cand-ok"),
		duePair("ev-3", "u3", "cand-ok"),
		duePair("ev-3", "u3", "cand-ok"),
	}, nil)
	f.ashby.EXPECT().CandidateInfo(gomock.Any(), "cand-bad").Return(nil, errors.New("upstream 500"))
	f.ashby.EXPECT().CandidateInfo(gomock.Any(), "cand-ok").Return(&ashby.Candidate{ID: "cand-ok", Name: "Sam"}, nil).Times(2)
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(slack.Receipt{Channel: "D2", TS: "1"}, nil)
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(slack.Receipt{}, errors.New("channel_not_found"))
	f.tracker.EXPECT().RecordSent(gomock.Any(), gomock.Any()).Return(false, nil)

	result, err := f.d.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BatchResult{Due: 3, Duplicate: 1, Failed: 2}, result)
}

func TestSendDueRemindersSkipsResumeOnFailure(t *testing.T) {
	f := newDispatcherFixture(t)
	pair := duePair("ev-1", "u1", "cand-1")
	pair.JobID = ""

	f.selector.EXPECT().SelectDue(gomock.Any()).Return([]domain.DuePair{pair}, nil)
	f.ashby.EXPECT().CandidateInfo(gomock.Any(), "cand-1").Return(&ashby.Candidate{
		ID:               "cand-1",
		Name:             "Jane",
		ResumeFileHandle: &ashby.FileHandle{Handle: "fh-1"},
	}, nil)
	f.ashby.EXPECT().FileURL(gomock.Any(), "fh-1").Return("", errors.New("expired"))
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(slack.Receipt{Channel: "D1", TS: "1"}, nil)
	f.tracker.EXPECT().RecordSent(gomock.Any(), gomock.Any()).Return(true, nil)

	result, err := f.d.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
}

func TestSendDueRemindersPropagatesSelectorError(t *testing.T) {
	f := newDispatcherFixture(t)
	f.selector.EXPECT().SelectDue(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := f.d.SendDueReminders(context.Background())
	assert.Error(t, err)
}

func TestSendDueRemindersEmptyBatch(t *testing.T) {
	f := newDispatcherFixture(t)
	f.selector.EXPECT().SelectDue(gomock.Any()).Return(nil, nil)

	result, err := f.d.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BatchResult{}, result)
}
