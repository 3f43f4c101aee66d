package request

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/approval"

	"github.com/google/uuid"
)

type Kind string

const (
	KindLeave    Kind = "LEAVE"
	KindOvertime Kind = "OVERTIME"
)

// Attachments are opaque references to uploaded files, stored as JSON.
type Attachments []string

func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attachments) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported attachments type %T", src)
	}
	if len(raw) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(a))
}

// Request is a leave or overtime submission. CachedStatus and
// CachedCancelState mirror approval.Resolve over the request's events and are
// only written in the same transaction as the append that changed them.
type Request struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Kind        Kind        `gorm:"size:20;not null;index:idx_requests_owner_kind,priority:2"`
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_requests_owner_kind,priority:1"`
	StartAt     time.Time   `gorm:"not null;index:idx_requests_period,priority:1"`
	EndAt       time.Time   `gorm:"not null;index:idx_requests_period,priority:2"`
	Reason      string      `gorm:"type:text;not null"`
	Attachments Attachments `gorm:"type:text"`

	CachedStatus      approval.Status      `gorm:"size:20;not null;index:idx_requests_status"`
	CachedCancelState approval.CancelState `gorm:"size:20;not null"`
	LastSequence      int64                `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Request) TableName() string {
	return "requests"
}

func (r Request) Cached() approval.Resolution {
	return approval.Resolution{Status: r.CachedStatus, Cancel: r.CachedCancelState}
}
