package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	catalogmocks "github.com/smallbiznis/feedbackrelay/internal/catalog/mocks"
	draftmocks "github.com/smallbiznis/feedbackrelay/internal/draft/mocks"
	feedbackdomain "github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	feedbackmocks "github.com/smallbiznis/feedbackrelay/internal/feedback/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/interaction/domain"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	ashbymocks "github.com/smallbiznis/feedbackrelay/internal/providers/ashby/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	slackmocks "github.com/smallbiznis/feedbackrelay/internal/providers/slack/mocks"
	scheduledomain "github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
	schedulemocks "github.com/smallbiznis/feedbackrelay/internal/schedule/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fixture struct {
	catalog   *catalogmocks.MockService
	drafts    *draftmocks.MockService
	schedules *schedulemocks.MockService
	ashby     *ashbymocks.MockClient
	slack     *slackmocks.MockProvider
	queue     *feedbackmocks.MockQueue
	svc       domain.Service
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		catalog:   catalogmocks.NewMockService(ctrl),
		drafts:    draftmocks.NewMockService(ctrl),
		schedules: schedulemocks.NewMockService(ctrl),
		ashby:     ashbymocks.NewMockClient(ctrl),
		slack:     slackmocks.NewMockProvider(ctrl),
		queue:     feedbackmocks.NewMockQueue(ctrl),
	}
	f.svc = New(Params{
		Log:       zap.NewNop(),
		Catalog:   f.catalog,
		Drafts:    f.drafts,
		Schedules: f.schedules,
		Ashby:     f.ashby,
		Slack:     f.slack,
		Renderer:  slackui.NewRenderer(zap.NewNop()),
		Queue:     f.queue,
	})
	return f
}

var buttonContext = slackui.FeedbackContext{
	EventID:          "ev-1",
	FormDefinitionID: "form-1",
	ApplicationID:    "app-1",
	InterviewerID:    "u-1",
	CandidateID:      "cand-1",
}

func notesForm() *catalogdomain.FormDefinition {
	return &catalogdomain.FormDefinition{
		ID:    "form-1",
		Title: "Scorecard",
		Sections: []catalogdomain.Section{{
			Fields: []catalogdomain.FieldConfig{
				{Field: catalogdomain.Field{Path: "notes", Type: catalogdomain.FieldRichText, Title: "Notes"}},
			},
		}},
	}
}

func openPayload() *domain.Payload {
	return &domain.Payload{
		Type:      domain.TypeBlockActions,
		TriggerID: "trig-1",
		User:      domain.User{ID: "U1"},
		Actions: []domain.Action{{
			ActionID: slackui.ActionOpenFeedbackModal,
			Value:    buttonContext.Encode(),
		}},
	}
}

func strPtr(s string) *string { return &s }

func TestOpenModalRendersWithDraftAndDetails(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(notesForm(), nil)
	f.drafts.EXPECT().Load(gomock.Any(), "ev-1", "u-1").Return(map[string]any{"notes": "half done"}, nil)
	f.ashby.EXPECT().CandidateInfo(gomock.Any(), "cand-1").Return(&ashby.Candidate{ID: "cand-1", Name: "Jane Doe"}, nil)
	f.schedules.EXPECT().EventDetails(gomock.Any(), "ev-1").Return(&scheduledomain.EventDetails{
		EventID:        "ev-1",
		StartTime:      &start,
		InterviewTitle: "Systems Design",
	}, nil)
	f.slack.EXPECT().OpenView(gomock.Any(), "trig-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, view any) error {
			v, ok := view.(slackui.View)
			require.True(t, ok)
			assert.Equal(t, slackui.CallbackSubmitFeedback, v.CallbackID)
			decoded, err := slackui.DecodeFeedbackContext(v.PrivateMetadata)
			require.NoError(t, err)
			assert.Equal(t, buttonContext, decoded)
			return nil
		})

	require.NoError(t, f.svc.Handle(context.Background(), openPayload()))
}

func TestOpenModalWithoutFormDefinitionOpensNothing(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").
		Return(nil, apperr.NotFound("catalog.GetFormDefinition", errors.New("gone")))
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg slack.Message) (slack.Receipt, error) {
			assert.Equal(t, "U1", msg.Channel)
			assert.Contains(t, msg.Text, "Could not open the feedback form")
			return slack.Receipt{}, nil
		})

	require.NoError(t, f.svc.Handle(context.Background(), openPayload()))
}

func TestOpenModalMissingEventDetailsUsesDefaultTitle(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(notesForm(), nil)
	f.drafts.EXPECT().Load(gomock.Any(), "ev-1", "u-1").Return(map[string]any{}, nil)
	f.ashby.EXPECT().CandidateInfo(gomock.Any(), "cand-1").Return(&ashby.Candidate{ID: "cand-1", Name: "Jane Doe"}, nil)
	f.schedules.EXPECT().EventDetails(gomock.Any(), "ev-1").
		Return(nil, apperr.NotFound("schedule.EventDetails", scheduledomain.ErrEventNotFound))
	f.slack.EXPECT().OpenView(gomock.Any(), "trig-1", gomock.Any()).Return(nil)

	require.NoError(t, f.svc.Handle(context.Background(), openPayload()))
}

func TestOpenModalWithBrokenContextIsLogged(t *testing.T) {
	f := newFixture(t)
	p := openPayload()
	p.Actions[0].Value = "not-json"

	require.NoError(t, f.svc.Handle(context.Background(), p))
}

func TestFieldActionAutosavesDraft(t *testing.T) {
	f := newFixture(t)
	p := &domain.Payload{
		Type:    domain.TypeBlockActions,
		User:    domain.User{ID: "U1"},
		Actions: []domain.Action{{ActionID: "input", BlockID: "field_notes"}},
		View: &domain.View{
			CallbackID:      slackui.CallbackSubmitFeedback,
			PrivateMetadata: buttonContext.Encode(),
			State: domain.ViewState{Values: slackui.StateValues{
				"field_notes": {"input": {Type: "plain_text_input", Value: strPtr("typing")}},
			}},
		},
	}

	f.drafts.EXPECT().Save(gomock.Any(), "ev-1", "u-1", map[string]any{"notes": "typing"}).Return(nil)

	require.NoError(t, f.svc.Handle(context.Background(), p))
}

func submitPayload() *domain.Payload {
	return &domain.Payload{
		Type: domain.TypeViewSubmission,
		User: domain.User{ID: "U1"},
		View: &domain.View{
			CallbackID:      slackui.CallbackSubmitFeedback,
			PrivateMetadata: buttonContext.Encode(),
			State: domain.ViewState{Values: slackui.StateValues{
				"field_notes": {"input": {Type: "plain_text_input", Value: strPtr("done")}},
			}},
		},
	}
}

func TestViewSubmissionIsQueued(t *testing.T) {
	f := newFixture(t)

	f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sub feedbackdomain.Submission) error {
			assert.Equal(t, buttonContext, sub.Context)
			assert.Equal(t, "U1", sub.SlackUserID)
			assert.NotEmpty(t, sub.CorrelationID)
			assert.Contains(t, sub.State, "field_notes")
			return nil
		})

	require.NoError(t, f.svc.Handle(context.Background(), submitPayload()))
}

func TestViewSubmissionQueueFullKeepsDraft(t *testing.T) {
	f := newFixture(t)

	f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(feedbackdomain.ErrQueueFull)
	f.drafts.EXPECT().Save(gomock.Any(), "ev-1", "u-1", map[string]any{"notes": "done"}).Return(nil)
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg slack.Message) (slack.Receipt, error) {
			assert.Contains(t, msg.Text, "Failed to submit feedback")
			return slack.Receipt{}, nil
		})

	require.NoError(t, f.svc.Handle(context.Background(), submitPayload()))
}

func TestOtherInteractionsAreAcknowledged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Handle(ctx, &domain.Payload{Type: domain.TypeViewClosed, View: &domain.View{CallbackID: "submit_feedback"}}))
	require.NoError(t, f.svc.Handle(ctx, &domain.Payload{Type: "shortcut"}))
	p := submitPayload()
	p.View.CallbackID = "something_else"
	require.NoError(t, f.svc.Handle(ctx, p))
}
