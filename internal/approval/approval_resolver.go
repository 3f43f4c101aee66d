package approval

import "sort"

type Resolution struct {
	Status Status      `json:"status"`
	Cancel CancelState `json:"cancel_state"`
}

func (r Resolution) Terminal() bool {
	switch r.Status {
	case StatusRejected, StatusCanceled, StatusWithdrawn:
		return true
	}
	return false
}

// AwaitingDecision reports whether approve, reject and withdraw are allowed.
func (r Resolution) AwaitingDecision() bool {
	return r.Status == StatusWaiting
}

// CancelRequestable reports whether a new cancellation may be opened.
// A previously rejected cancellation may be retried.
func (r Resolution) CancelRequestable() bool {
	return r.Status == StatusApproved && (r.Cancel == CancelNone || r.Cancel == CancelRejected)
}

// CancelAwaitingDecision reports whether a cancellation is open.
func (r Resolution) CancelAwaitingDecision() bool {
	return r.Status == StatusApproved && r.Cancel == CancelPending
}

// Ordered returns a copy of events sorted by (CreatedAt, Sequence).
func Ordered(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

// NextSequence returns the sequence the next appended event must carry.
func NextSequence(events []Event) int64 {
	var max int64
	for _, e := range events {
		if e.Sequence > max {
			max = e.Sequence
		}
	}
	return max + 1
}

// Resolve derives the effective state of a request from its event history.
// It never mutates events. Unknown event types are ignored.
func Resolve(events []Event) Resolution {
	ordered := Ordered(events)
	res := Resolution{Status: StatusWaiting, Cancel: CancelNone}

	decision := -1
	for i, e := range ordered {
		switch e.Type {
		case EventApprove, EventReject, EventWithdraw:
			decision = i
		}
	}
	if decision < 0 {
		return res
	}

	switch ordered[decision].Type {
	case EventReject:
		res.Status = StatusRejected
		return res
	case EventWithdraw:
		res.Status = StatusWithdrawn
		return res
	}
	res.Status = StatusApproved

	lastCancelRequest := -1
	for i, e := range ordered {
		if e.Type == EventRequestCancel {
			lastCancelRequest = i
		}
	}
	if lastCancelRequest < 0 {
		return res
	}

	res.Cancel = CancelPending
	rejected := false
	for _, e := range ordered[lastCancelRequest+1:] {
		switch e.Type {
		case EventApproveCancel:
			res.Status = StatusCanceled
			res.Cancel = CancelApproved
			return res
		case EventRejectCancel:
			rejected = true
		}
	}
	if rejected {
		res.Cancel = CancelRejected
	}
	return res
}
