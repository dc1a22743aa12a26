package masking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("abcd"))
	assert.Equal(t, "****6789", MaskSecret("123456789"))
	assert.Equal(t, "whsec_****wxyz", MaskSecret("whsec_abcdefwxyz"))
}

func TestMaskPayloadOnlyTouchesSecrets(t *testing.T) {
	raw := []byte(`{
		"action": "interviewScheduleUpdate",
		"webhookToken": "tok_1234567890",
		"data": {
			"interviewSchedule": {"id": "sched-1", "status": "Scheduled"},
			"nested": [{"apiKey": "key-abcdefgh"}]
		}
	}`)

	masked, err := MaskPayload(raw)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(masked, &doc))
	assert.Equal(t, "interviewScheduleUpdate", doc["action"])
	assert.Equal(t, "tok_****7890", doc["webhookToken"])

	data := doc["data"].(map[string]any)
	schedule := data["interviewSchedule"].(map[string]any)
	assert.Equal(t, "sched-1", schedule["id"])
	nested := data["nested"].([]any)[0].(map[string]any)
	assert.Equal(t, "****efgh", nested["apiKey"])
}

func TestMaskPayloadRejectsInvalidJSON(t *testing.T) {
	_, err := MaskPayload([]byte("{"))
	assert.Error(t, err)
}
