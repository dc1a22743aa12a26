package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload(`{
		"type": "view_submission",
		"user": {"id": "U1"},
		"view": {
			"callback_id": "submit_feedback",
			"private_metadata": "{\"event_id\":\"ev-1\",\"interviewer_id\":\"u-1\"}",
			"state": {"values": {"field_notes": {"input": {"type": "plain_text_input", "value": "ok"}}}}
		}
	}`)
	require.NoError(t, err)
	assert.Equal(t, TypeViewSubmission, p.Type)
	assert.Equal(t, "U1", p.User.ID)
	require.NotNil(t, p.View)
	assert.Equal(t, "ok", *p.View.State.Values["field_notes"]["input"].Value)
}

func TestParsePayloadRejects(t *testing.T) {
	_, err := ParsePayload("  ")
	assert.ErrorIs(t, err, ErrMissingPayload)

	_, err = ParsePayload("{not json")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParsePayload(`{"user":{"id":"U1"}}`)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
