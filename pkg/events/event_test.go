package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseEvent_RoundTripKeepsEnvelope(t *testing.T) {
	e := New("DECISION_RECORDED", "abc", map[string]interface{}{"customer": "Tesla"})

	raw, err := e.Marshal()
	require.NoError(t, err)

	decoded, err := Unmarshal(raw)
	require.NoError(t, err)

	assert.Equal(t, "DECISION_RECORDED", decoded.EventType())
	assert.Equal(t, "abc", decoded.SessionId)
	assert.Equal(t, "Tesla", decoded.Data["customer"])
	assert.True(t, e.Timestamp().Equal(decoded.Timestamp()))
}

func TestBaseEvent_PayloadIncludesSession(t *testing.T) {
	data := map[string]interface{}{"subject": "Renewal"}
	e := New("EMAIL_DISPATCHED", "s-1", data)

	payload := e.Payload()
	assert.Equal(t, "s-1", payload["session_id"])
	assert.Equal(t, "Renewal", payload["subject"])
	assert.NotContains(t, data, "session_id")
}
