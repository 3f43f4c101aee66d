package approval

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventApprove       EventType = "approve"
	EventReject        EventType = "reject"
	EventRequestCancel EventType = "request_cancel"
	EventApproveCancel EventType = "approve_cancel"
	EventRejectCancel  EventType = "reject_cancel"
	EventWithdraw      EventType = "withdrawn"
)

func (t EventType) Valid() bool {
	switch t {
	case EventApprove, EventReject, EventRequestCancel, EventApproveCancel, EventRejectCancel, EventWithdraw:
		return true
	}
	return false
}

// Event is one immutable decision appended to a request's history.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_approval_events_request_sequence,priority:1"`
	Sequence  int64     `gorm:"not null;uniqueIndex:uq_approval_events_request_sequence,priority:2"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_events_actor"`
	Type      EventType `gorm:"column:event_type;size:30;not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Event) TableName() string {
	return "approval_events"
}

type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCanceled  Status = "CANCELED"
	StatusWithdrawn Status = "WITHDRAWN"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled, StatusWithdrawn:
		return true
	}
	return false
}

// CancelState tracks the cancellation sub-workflow layered on APPROVED.
type CancelState string

const (
	CancelNone     CancelState = "none"
	CancelPending  CancelState = "pending"
	CancelRejected CancelState = "rejected"
	CancelApproved CancelState = "approved"
)
