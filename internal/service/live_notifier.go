package service

import "github.com/google/uuid"

// LiveNotifier pushes session events to connected live clients.
// *websocket.Hub satisfies it.
type LiveNotifier interface {
	Notify(sessionId uuid.UUID, eventType string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Notify(uuid.UUID, string, interface{}) {}

func notifierOrNoop(n LiveNotifier) LiveNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
