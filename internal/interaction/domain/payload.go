package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/slackui"
)

const (
	TypeBlockActions   = "block_actions"
	TypeViewSubmission = "view_submission"
	TypeViewClosed     = "view_closed"
)

// Payload is the decoded "payload" form field of an interactive callback.
type Payload struct {
	Type      string   `json:"type"`
	TriggerID string   `json:"trigger_id"`
	User      User     `json:"user"`
	Actions   []Action `json:"actions"`
	View      *View    `json:"view"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Action struct {
	Type     string `json:"type"`
	ActionID string `json:"action_id"`
	BlockID  string `json:"block_id"`
	Value    string `json:"value"`
}

type View struct {
	ID              string    `json:"id"`
	CallbackID      string    `json:"callback_id"`
	PrivateMetadata string    `json:"private_metadata"`
	State           ViewState `json:"state"`
}

type ViewState struct {
	Values slackui.StateValues `json:"values"`
}

func ParsePayload(raw string) (*Payload, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingPayload
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidPayload)
	}
	return &p, nil
}
