package slackui

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrMissingContext = errors.New("missing_feedback_context")

// FeedbackContext identifies one reviewer's feedback for one interview event.
// It travels in the reminder button value and the modal private metadata.
type FeedbackContext struct {
	EventID          string `json:"event_id"`
	FormDefinitionID string `json:"form_definition_id"`
	ApplicationID    string `json:"application_id"`
	InterviewerID    string `json:"interviewer_id"`
	CandidateID      string `json:"candidate_id"`
}

func (c FeedbackContext) Encode() string {
	raw, _ := json.Marshal(c)
	return string(raw)
}

// DecodeFeedbackContext requires the event and interviewer ids at minimum.
func DecodeFeedbackContext(raw string) (FeedbackContext, error) {
	var c FeedbackContext
	if strings.TrimSpace(raw) == "" {
		return c, ErrMissingContext
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return c, err
	}
	if c.EventID == "" || c.InterviewerID == "" {
		return c, ErrMissingContext
	}
	return c, nil
}
