package events

import "time"

const RequestDecidedTopic = "hr.request.decided.v1"

// RequestDecidedEvent is published after a decision on a leave or overtime
// request has been committed. Consumers send the actual notifications.
type RequestDecidedEvent struct {
	EventType     string    `json:"event_type"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	RequestID     string    `json:"request_id"`
	Kind          string    `json:"kind"`
	OwnerID       string    `json:"owner_id"`
	ActorID       string    `json:"actor_id"`
	Comment       string    `json:"comment,omitempty"`
	Status        string    `json:"status"`
	CancelState   string    `json:"cancel_state"`
	Sequence      int64     `json:"sequence"`
	OccurredAt    time.Time `json:"occurred_at"`
}
