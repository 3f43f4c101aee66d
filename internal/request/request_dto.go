package request

type SubmitRequest struct {
	Kind        string   `json:"kind" binding:"required,oneof=LEAVE OVERTIME"`
	OwnerID     string   `json:"owner_id" binding:"omitempty,uuid"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Reason      string   `json:"reason" binding:"required"`
	Attachments []string `json:"attachments" binding:"omitempty,max=10,dive,max=500"`
}

type DecisionRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

type ListQuery struct {
	OwnerID  string `form:"owner_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=WAITING APPROVED REJECTED CANCELED WITHDRAWN"`
	Kind     string `form:"kind" binding:"omitempty,oneof=LEAVE OVERTIME"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type RequestResponse struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	OwnerID      string   `json:"owner_id"`
	StartAt      string   `json:"start_at"`
	EndAt        string   `json:"end_at"`
	Reason       string   `json:"reason"`
	Attachments  []string `json:"attachments"`
	Status       string   `json:"status"`
	CancelState  string   `json:"cancel_state"`
	StatusLabel  string   `json:"status_label,omitempty"`
	LastSequence int64    `json:"last_sequence"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type EventResponse struct {
	ID        string `json:"id"`
	Sequence  int64  `json:"sequence"`
	ActorID   string `json:"actor_id"`
	Type      string `json:"type"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// HistoryResponse is the audit view: Status and CancelState are recomputed
// from the event log, never taken from the cache.
type HistoryResponse struct {
	Request         RequestResponse `json:"request"`
	Status          string          `json:"status"`
	CancelState     string          `json:"cancel_state"`
	StatusLabel     string          `json:"status_label,omitempty"`
	CacheConsistent bool            `json:"cache_consistent"`
	Events          []EventResponse `json:"events"`
}

type DriftEntry struct {
	RequestID         string `json:"request_id"`
	CachedStatus      string `json:"cached_status"`
	CachedCancelState string `json:"cached_cancel_state"`
	Status            string `json:"status"`
	CancelState       string `json:"cancel_state"`
	Repaired          bool   `json:"repaired"`
}

type ReconcileReport struct {
	Checked  int          `json:"checked"`
	Drifted  []DriftEntry `json:"drifted"`
	Repaired int          `json:"repaired"`
}
