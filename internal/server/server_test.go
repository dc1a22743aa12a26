package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	admindomain "github.com/smallbiznis/feedbackrelay/internal/admin/domain"
	adminmocks "github.com/smallbiznis/feedbackrelay/internal/admin/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	auditdomain "github.com/smallbiznis/feedbackrelay/internal/audit/domain"
	auditmocks "github.com/smallbiznis/feedbackrelay/internal/audit/mocks"
	catalogmocks "github.com/smallbiznis/feedbackrelay/internal/catalog/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	directorydomain "github.com/smallbiznis/feedbackrelay/internal/directory/domain"
	directorymocks "github.com/smallbiznis/feedbackrelay/internal/directory/mocks"
	interactiondomain "github.com/smallbiznis/feedbackrelay/internal/interaction/domain"
	interactionmocks "github.com/smallbiznis/feedbackrelay/internal/interaction/mocks"
	"github.com/smallbiznis/feedbackrelay/internal/signature"
	webhookdomain "github.com/smallbiznis/feedbackrelay/internal/webhook/domain"
	webhookmocks "github.com/smallbiznis/feedbackrelay/internal/webhook/mocks"
	"github.com/smallbiznis/feedbackrelay/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type testDeps struct {
	webhook     *webhookmocks.MockService
	interaction *interactionmocks.MockService
	catalog     *catalogmocks.MockService
	directory   *directorymocks.MockService
	admin       *adminmocks.MockService
	audit       *auditmocks.MockService
}

func newTestServer(t *testing.T, cfg config.Config) (*Server, testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	deps := testDeps{
		webhook:     webhookmocks.NewMockService(ctrl),
		interaction: interactionmocks.NewMockService(ctrl),
		catalog:     catalogmocks.NewMockService(ctrl),
		directory:   directorymocks.NewMockService(ctrl),
		admin:       adminmocks.NewMockService(ctrl),
		audit:       auditmocks.NewMockService(ctrl),
	}

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := NewServer(ServerParams{
		Gin:            engine,
		Cfg:            cfg,
		DB:             dbtest.Open(t),
		Clock:          clock.NewFakeClock(testNow),
		WebhookSvc:     deps.webhook,
		InteractionSvc: deps.interaction,
		CatalogSvc:     deps.catalog,
		DirectorySvc:   deps.directory,
		AdminSvc:       deps.admin,
		AuditSvc:       deps.audit,
	})
	return s, deps
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestAshbyWebhookPingReturnsOK(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	body := `{"action":"ping"}`
	deps.webhook.EXPECT().Ingest(gomock.Any(), []byte(body), "").
		Return(webhookdomain.Result{Outcome: webhookdomain.OutcomePing, Action: "ping"}, nil)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/webhooks/ashby", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAshbyWebhookProcessedReturnsNoContent(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	body := `{"action":"interviewScheduleUpdate","data":{}}`
	deps.webhook.EXPECT().Ingest(gomock.Any(), []byte(body), "sha256=abc").
		Return(webhookdomain.Result{Outcome: webhookdomain.OutcomeProcessed, Action: webhookdomain.ActionInterviewScheduleUpdate}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/ashby", strings.NewReader(body))
	req.Header.Set(signature.HeaderAshby, "sha256=abc")
	rec := serve(s, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAshbyWebhookErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		wantType string
	}{
		{"bad signature", apperr.Authentication("webhook.Ingest", signature.ErrInvalidSignature), http.StatusUnauthorized, "unauthorized"},
		{"bad json", apperr.MalformedInput("webhook.Ingest", webhookdomain.ErrInvalidJSON), http.StatusBadRequest, "invalid_request"},
		{"storage", apperr.Storage("audit.Record", errors.New("disk full")), http.StatusInternalServerError, "internal_error"},
		{"upstream", apperr.DependencyFailed("ashby.CandidateInfo", errors.New("502")), http.StatusBadGateway, "dependency_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, deps := newTestServer(t, config.Config{})
			deps.webhook.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any()).Return(webhookdomain.Result{}, tc.err)

			rec := serve(s, httptest.NewRequest(http.MethodPost, "/webhooks/ashby", strings.NewReader(`{}`)))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.wantType, decodeError(t, rec).Type)
		})
	}
}

func TestMalformedInputMessageHidesOperation(t *testing.T) {
	status, payload := mapError(apperr.MalformedInput("webhook.Ingest", webhookdomain.ErrInvalidJSON))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_json", payload.Message)
}

func TestSlackInteractionDispatchesPayload(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	deps.interaction.EXPECT().Handle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *interactiondomain.Payload) error {
			assert.Equal(t, interactiondomain.TypeViewClosed, p.Type)
			assert.Equal(t, "U1", p.User.ID)
			return nil
		})

	form := url.Values{"payload": {`{"type":"view_closed","user":{"id":"U1"}}`}}
	req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(s, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSlackInteractionMissingPayload(t *testing.T) {
	s, _ := newTestServer(t, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader("foo=bar"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlackInteractionHandlerErrorStillAcknowledged(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	deps.interaction.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(errors.New("boom"))

	form := url.Values{"payload": {`{"type":"block_actions"}`}}
	req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader(form.Encode()))
	rec := serve(s, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSlackInteractionSignature(t *testing.T) {
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: "slack-secret"}}
	body := url.Values{"payload": {`{"type":"view_closed"}`}}.Encode()
	ts := strconv.FormatInt(testNow.Unix(), 10)

	t.Run("valid", func(t *testing.T) {
		s, deps := newTestServer(t, cfg)
		deps.interaction.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader(body))
		req.Header.Set(signature.HeaderSlackTimestamp, ts)
		req.Header.Set(signature.HeaderSlackSignature, slackSignature("slack-secret", ts, body))

		assert.Equal(t, http.StatusOK, serve(s, req).Code)
	})

	t.Run("invalid", func(t *testing.T) {
		s, _ := newTestServer(t, cfg)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader(body))
		req.Header.Set(signature.HeaderSlackTimestamp, ts)
		req.Header.Set(signature.HeaderSlackSignature, slackSignature("other", ts, body))

		rec := serve(s, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		s, _ := newTestServer(t, cfg)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader(body))
		assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)
	})
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s, deps := newTestServer(t, config.Config{AdminToken: "admin-secret"})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	deps.admin.EXPECT().Stats(gomock.Any()).Return(admindomain.Stats{RemindersSent: 3, SlackUsers: 7}, nil)
	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	rec = serve(s, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reminders_sent":3,"pending_feedback":0,"active_drafts":0,"feedback_forms":0,"slack_users":7}`, rec.Body.String())
}

func TestAdminSyncRoutes(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	deps.catalog.EXPECT().SyncFormDefinitions(gomock.Any()).Return(4, nil)
	deps.catalog.EXPECT().SyncInterviewTypes(gomock.Any()).Return(2, nil)
	deps.directory.EXPECT().Sync(gomock.Any()).Return(directorydomain.SyncResult{Seen: 5, Stored: 3, Skipped: 2}, nil)

	for path, message := range map[string]string{
		"/admin/sync-forms":       "Synced 4 feedback form definitions",
		"/admin/sync-interviews":  "Synced 2 interviews",
		"/admin/sync-slack-users": "Synced 3 of 5 slack users",
	} {
		rec := serve(s, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp syncResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, message, resp.Message)
	}
}

func TestAdminSyncFailureMapsToBadGateway(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	deps.catalog.EXPECT().SyncFormDefinitions(gomock.Any()).
		Return(0, apperr.DependencyFailed("ashby.ListFeedbackFormDefinitions", errors.New("timeout")))

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/admin/sync-forms", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAdminListWebhooks(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	scheduleID := "sched-1"
	deps.audit.EXPECT().List(gomock.Any(), auditdomain.ListRequest{ScheduleID: "sched-1", Limit: 5}).
		Return([]auditdomain.WebhookPayload{{ID: 42, ScheduleID: &scheduleID, Action: "interviewScheduleUpdate", Payload: []byte(`{}`), ReceivedAt: testNow}}, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/admin/webhooks?schedule_id=sched-1&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "sched-1", resp.Data[0]["schedule_id"])
	assert.Equal(t, "interviewScheduleUpdate", resp.Data[0]["action"])

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/admin/webhooks?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, config.Config{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, rec.Body.String())

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebhookRateLimitDisabledPassesThrough(t *testing.T) {
	s, deps := newTestServer(t, config.Config{})
	deps.webhook.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(webhookdomain.Result{Outcome: webhookdomain.OutcomeIgnored}, nil).Times(3)

	for i := 0; i < 3; i++ {
		rec := serve(s, httptest.NewRequest(http.MethodPost, "/webhooks/ashby", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func slackSignature(secret, ts, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", ts, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}
