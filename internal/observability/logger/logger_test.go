package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/feedbackrelay/internal/observability/context"
	"github.com/smallbiznis/feedbackrelay/pkg/telemetry/correlation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestDescribeSQL(t *testing.T) {
	cases := []struct {
		sql   string
		op    string
		table string
	}{
		{"SELECT * FROM interview_events WHERE event_id = ?", "SELECT", "interview_events"},
		{`INSERT INTO "feedback_drafts" (event_id) VALUES (?)`, "INSERT", "feedback_drafts"},
		{"UPDATE feedback_reminders_sent SET submitted_at = ?", "UPDATE", "feedback_reminders_sent"},
		{"DELETE FROM interview_schedules WHERE schedule_id = ?", "DELETE", "interview_schedules"},
		{"PRAGMA foreign_keys", "UNKNOWN", ""},
	}
	for _, tc := range cases {
		op, table := describeSQL(tc.sql)
		if op != tc.op || table != tc.table {
			t.Fatalf("describeSQL(%q) = %s %s, want %s %s", tc.sql, op, table, tc.op, tc.table)
		}
	}
}

func TestWithContextAddsIdentifiers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithActor(ctx, "U123")
	ctx = correlation.ContextWithCorrelationID(ctx, "01HZ")

	WithContext(ctx, base).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["slack_user_id"] != "U123" || fields["correlation_id"] != "01HZ" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestGormLoggerSlowAndErrorQueries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{Level: gormlogger.Warn, SlowThreshold: time.Millisecond, IgnoreRecordNotFound: true})

	fc := func() (string, int64) { return "SELECT 1 FROM slack_users", 1 }
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	l.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected levels: %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[0].ContextMap()["table"] != "slack_users" {
		t.Fatalf("expected table field, got %v", entries[0].ContextMap())
	}
}

func TestGinMiddlewareSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = obscontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != "abc" || rec.Header().Get("X-Request-Id") != "abc" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-Id"))
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 || entries[0].ContextMap()["route"] != "/ping" {
		t.Fatalf("expected one http_request entry for /ping, got %v", entries)
	}
}
