package events

import (
	"encoding/json"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DECISION_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	SessionId  string                 `json:"session_id"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType, sessionId string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		SessionId:  sessionId,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

// Payload includes the session id so that subscribers without the envelope
// can still correlate events.
func (e BaseEvent) Payload() map[string]interface{} {
	payload := make(map[string]interface{}, len(e.Data)+1)
	for k, v := range e.Data {
		payload[k] = v
	}
	payload["session_id"] = e.SessionId
	return payload
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func (e BaseEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
