package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	catalogmocks "github.com/smallbiznis/feedbackrelay/internal/catalog/mocks"
	draftmocks "github.com/smallbiznis/feedbackrelay/internal/draft/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/feedback/domain"
	"github.com/smallbiznis/feedbackrelay/internal/feedback/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	ashbymocks "github.com/smallbiznis/feedbackrelay/internal/providers/ashby/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	slackmocks "github.com/smallbiznis/feedbackrelay/internal/providers/slack/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type processorFixture struct {
	catalog   *catalogmocks.MockService
	ashby     *ashbymocks.MockClient
	slack     *slackmocks.MockProvider
	drafts    *draftmocks.MockService
	finalizer *mocks.MockFinalizer
	p         domain.Processor
}

func newProcessorFixture(t *testing.T) processorFixture {
	ctrl := gomock.NewController(t)
	f := processorFixture{
		catalog:   catalogmocks.NewMockService(ctrl),
		ashby:     ashbymocks.NewMockClient(ctrl),
		slack:     slackmocks.NewMockProvider(ctrl),
		drafts:    draftmocks.NewMockService(ctrl),
		finalizer: mocks.NewMockFinalizer(ctrl),
	}
	f.p = NewProcessor(ProcessorParams{
		Log:       zap.NewNop(),
		Catalog:   f.catalog,
		Ashby:     f.ashby,
		Slack:     f.slack,
		Drafts:    f.drafts,
		Finalizer: f.finalizer,
	})
	return f
}

func strPtr(s string) *string { return &s }

func scorecardForm() *catalogdomain.FormDefinition {
	return &catalogdomain.FormDefinition{
		ID: "form-1",
		Sections: []catalogdomain.Section{{
			Fields: []catalogdomain.FieldConfig{
				{Field: catalogdomain.Field{Path: "notes", Type: catalogdomain.FieldRichText}},
				{Field: catalogdomain.Field{Path: "overall", Type: catalogdomain.FieldScore}},
			},
		}},
	}
}

func scorecardSubmission() domain.Submission {
	return domain.Submission{
		Context: slackui.FeedbackContext{
			EventID:          "ev-1",
			FormDefinitionID: "form-1",
			ApplicationID:    "app-1",
			InterviewerID:    "u-1",
			CandidateID:      "cand-1",
		},
		SlackUserID: "U1",
		State: slackui.StateValues{
			"field_notes":   {"input": {Type: "plain_text_input", Value: strPtr("Strong systems design")}},
			"field_overall": {"input": {Type: "static_select", SelectedOption: &slackui.Option{Value: "4"}}},
		},
		CorrelationID: "corr-1",
	}
}

func TestProcessSubmitsFinalizesAndConfirms(t *testing.T) {
	f := newProcessorFixture(t)
	sub := scorecardSubmission()

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(scorecardForm(), nil)
	f.ashby.EXPECT().SubmitFeedback(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in ashby.FeedbackSubmission) error {
			assert.Equal(t, "form-1", in.FormDefinitionID)
			assert.Equal(t, "app-1", in.ApplicationID)
			assert.Equal(t, "u-1", in.UserID)
			assert.Equal(t, "ev-1", in.InterviewEventID)
			require.Len(t, in.FieldSubmissions, 2)
			assert.Equal(t, "notes", in.FieldSubmissions[0].Path)
			assert.Equal(t, map[string]any{"type": "PlainText", "value": "Strong systems design"}, in.FieldSubmissions[0].Value)
			assert.Equal(t, map[string]any{"score": 4}, in.FieldSubmissions[1].Value)
			return nil
		})
	f.finalizer.EXPECT().Finalize(gomock.Any(), "ev-1", "u-1").Return(nil)
	f.slack.EXPECT().PostMessage(gomock.Any(), slack.Message{Channel: "U1", Text: domain.SuccessMessage}).
		Return(slack.Receipt{Channel: "D1", TS: "1.1"}, nil)

	require.NoError(t, f.p.Process(context.Background(), sub))
}

func TestProcessFailureKeepsDraftAndReportsError(t *testing.T) {
	f := newProcessorFixture(t)
	sub := scorecardSubmission()

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(scorecardForm(), nil)
	f.ashby.EXPECT().SubmitFeedback(gomock.Any(), gomock.Any()).Return(errors.New("ashby rejected submission"))
	f.drafts.EXPECT().Save(gomock.Any(), "ev-1", "u-1", map[string]any{
		"notes":   "Strong systems design",
		"overall": "4",
	}).Return(nil)
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg slack.Message) (slack.Receipt, error) {
			assert.Equal(t, "U1", msg.Channel)
			assert.True(t, strings.HasPrefix(msg.Text, domain.FailureMessagePrefix))
			assert.Contains(t, msg.Text, "ashby rejected submission")
			return slack.Receipt{}, nil
		})

	err := f.p.Process(context.Background(), sub)
	require.Error(t, err)
}

func TestProcessInvalidScoreNeverReachesTrackingSystem(t *testing.T) {
	f := newProcessorFixture(t)
	sub := scorecardSubmission()
	sub.State["field_overall"] = map[string]slackui.ActionState{
		"input": {Type: "static_select", SelectedOption: &slackui.Option{Value: "great"}},
	}

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(scorecardForm(), nil)
	f.drafts.EXPECT().Save(gomock.Any(), "ev-1", "u-1", gomock.Any()).Return(nil)
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(slack.Receipt{}, nil)

	require.Error(t, f.p.Process(context.Background(), sub))
}

func TestProcessNotificationFailureDoesNotFailSubmission(t *testing.T) {
	f := newProcessorFixture(t)
	sub := scorecardSubmission()

	f.catalog.EXPECT().GetFormDefinition(gomock.Any(), "form-1").Return(scorecardForm(), nil)
	f.ashby.EXPECT().SubmitFeedback(gomock.Any(), gomock.Any()).Return(nil)
	f.finalizer.EXPECT().Finalize(gomock.Any(), "ev-1", "u-1").Return(errors.New("db down"))
	f.slack.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(slack.Receipt{}, errors.New("channel_not_found"))

	require.NoError(t, f.p.Process(context.Background(), sub))
}

func TestProcessRejectsMissingContext(t *testing.T) {
	f := newProcessorFixture(t)
	sub := scorecardSubmission()
	sub.Context.ApplicationID = ""
	sub.SlackUserID = ""

	f.drafts.EXPECT().Save(gomock.Any(), "ev-1", "u-1", gomock.Any()).Return(nil)

	err := f.p.Process(context.Background(), sub)
	require.ErrorIs(t, err, domain.ErrMissingSubmission)
}
