package domain

import (
	"context"
	"encoding/json"
	"errors"

	scheduledomain "github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

const ActionInterviewScheduleUpdate = "interviewScheduleUpdate"

type Outcome string

const (
	OutcomePing      Outcome = "ping"
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
)

// Envelope is the outer shape of every non-ping webhook.
type Envelope struct {
	Action string       `json:"action"`
	Data   EnvelopeData `json:"data"`
}

type EnvelopeData struct {
	InterviewSchedule *scheduledomain.ScheduleUpdate `json:"interviewSchedule"`
}

type Result struct {
	Outcome    Outcome
	Action     string
	ScheduleID string
	Reconcile  *scheduledomain.ReconcileResult
}

// Service runs one inbound webhook through parsing, verification, auditing
// and processing.
type Service interface {
	Ingest(ctx context.Context, body []byte, signature string) (Result, error)
}

var (
	ErrInvalidJSON   = errors.New("invalid_json")
	ErrInvalidSchema = errors.New("invalid_schema")
	ErrMissingAction = errors.New("missing_action")
)

// DecodeEnvelope rejects documents whose fields have the wrong shape.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, errors.Join(ErrInvalidSchema, err)
	}
	if env.Action == "" {
		return env, ErrMissingAction
	}
	return env, nil
}
