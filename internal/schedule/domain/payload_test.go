package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2026-05-01T10:00:00Z",
		"2026-05-01T10:00:00.000Z",
		"2026-05-01T12:00:00+02:00",
	} {
		got := ParseTimestamp(in)
		require.NotNil(t, got, in)
		assert.True(t, got.Equal(want), in)
		assert.Equal(t, time.UTC, got.Location(), in)
	}
	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("yesterday"))
}

func TestResolveInterviewID(t *testing.T) {
	assert.Equal(t, "a", EventPayload{InterviewID: "a", Interview: &InterviewRef{ID: "b"}}.ResolveInterviewID())
	assert.Equal(t, "b", EventPayload{Interview: &InterviewRef{ID: "b"}}.ResolveInterviewID())
	assert.Empty(t, EventPayload{}.ResolveInterviewID())
}
