package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsIdentifiers(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "sent"),
		attribute.String("interviewer_id", "456"),
		attribute.String("action", "interviewScheduleUpdate"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "interviewer_id" {
			t.Fatalf("interviewer_id must not be used as a label")
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordWebhook(context.Background(), "ping", "ok")
	m.RecordReminder(context.Background(), "sent")
	m.RecordSubmission(context.Background(), "failed")
	m.RecordDraftSave(context.Background())
	m.RecordRateLimitDenied(context.Background(), "/webhooks/ashby", "limit_exceeded")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.RecordReminder(context.Background(), "sent")
}
