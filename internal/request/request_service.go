package request

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/approval"
	"github.com/PeterTHA/bo-resource-management/internal/events"
	"github.com/PeterTHA/bo-resource-management/internal/metrics"
	"github.com/PeterTHA/bo-resource-management/internal/rbac"
	requesterrors "github.com/PeterTHA/bo-resource-management/internal/request/errors"
	"github.com/PeterTHA/bo-resource-management/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	reconcileBatch   = 100
	dateLayout       = "2006-01-02"
	clockLayout      = "15:04"
	timestampLayout  = time.RFC3339
	outcomeOK        = "ok"
	outcomeForbidden = "forbidden"
	outcomeState     = "invalid_state"
	outcomeNotFound  = "not_found"
	outcomeError     = "error"
)

// snapshotTxOptions gives reads that must agree with each other one view of
// the database.
var snapshotTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// Actor is the authenticated employee performing an operation.
type Actor struct {
	EmployeeID string
	Role       rbac.Role
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor Actor, req SubmitRequest) (RequestResponse, error)
	Approve(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error)
	Reject(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error)
	RequestCancel(ctx context.Context, actor Actor, id, reason string) (RequestResponse, error)
	ApproveCancel(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error)
	RejectCancel(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error)
	Withdraw(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	List(ctx context.Context, actor Actor, q ListQuery) ([]RequestResponse, int64, error)
	History(ctx context.Context, actor Actor, id string) (HistoryResponse, error)
	Reconcile(ctx context.Context, repair bool) (ReconcileReport, error)
}

// transition describes one decision: who may take it, from which state, and
// which event it appends.
type transition struct {
	action         rbac.Action
	event          approval.EventType
	allowed        func(approval.Resolution) bool
	reasonRequired bool
	notify         bool
}

var (
	approveTransition = transition{
		action:  rbac.ActionApprove,
		event:   approval.EventApprove,
		allowed: approval.Resolution.AwaitingDecision,
		notify:  true,
	}
	rejectTransition = transition{
		action:  rbac.ActionReject,
		event:   approval.EventReject,
		allowed: approval.Resolution.AwaitingDecision,
		notify:  true,
	}
	requestCancelTransition = transition{
		action:         rbac.ActionRequestCancel,
		event:          approval.EventRequestCancel,
		allowed:        approval.Resolution.CancelRequestable,
		reasonRequired: true,
		notify:         true,
	}
	approveCancelTransition = transition{
		action:  rbac.ActionApproveCancel,
		event:   approval.EventApproveCancel,
		allowed: approval.Resolution.CancelAwaitingDecision,
		notify:  true,
	}
	rejectCancelTransition = transition{
		action:  rbac.ActionRejectCancel,
		event:   approval.EventRejectCancel,
		allowed: approval.Resolution.CancelAwaitingDecision,
		notify:  true,
	}
	withdrawTransition = transition{
		action:  rbac.ActionWithdraw,
		event:   approval.EventWithdraw,
		allowed: approval.Resolution.AwaitingDecision,
	}
)

type service struct {
	db       *sql.DB
	repo     Repository
	log      approval.Repository
	rbac     rbac.Service
	notifier Notifier
	now      func() time.Time
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	log approval.Repository,
	rbacService rbac.Service,
	notifier Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &service{
		db:       db,
		repo:     repo,
		log:      log,
		rbac:     rbacService,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Submit(ctx context.Context, actor Actor, req SubmitRequest) (RequestResponse, error) {
	s.logger.Debug("submit request requested",
		zap.String("actor_id", actor.EmployeeID),
		zap.String("kind", req.Kind),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidActorID
	}

	ownerUUID := actorUUID
	if req.OwnerID != "" {
		ownerUUID, err = uuid.Parse(req.OwnerID)
		if err != nil {
			return RequestResponse{}, requesterrors.ErrInvalidOwnerID
		}
	}
	if ownerUUID != actorUUID {
		allowed, err := s.rbac.Can(rbac.Subject{Role: actor.Role}, rbac.ActionSubmitForAny)
		if err != nil {
			s.logger.Error("submit request rbac check failed", zap.Error(err))
			return RequestResponse{}, err
		}
		if !allowed {
			s.logger.Warn("submit request on behalf denied",
				zap.String("actor_id", actor.EmployeeID),
				zap.String("owner_id", ownerUUID.String()),
			)
			return RequestResponse{}, requesterrors.ErrForbidden
		}
	}

	kind := Kind(req.Kind)
	startAt, endAt, err := parsePeriod(kind, req)
	if err != nil {
		s.logger.Warn("submit request validation failed", zap.Error(err))
		return RequestResponse{}, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return RequestResponse{}, requesterrors.ErrReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, ownerUUID.String(), kind, startAt, endAt)
	if err != nil {
		s.logger.Error("submit request overlap check failed", zap.Error(err))
		return RequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit request overlap detected",
			zap.String("owner_id", ownerUUID.String()),
			zap.String("kind", req.Kind),
		)
		return RequestResponse{}, requesterrors.ErrRequestOverlap
	}

	now := s.now()
	r := &Request{
		ID:                uuid.New(),
		Kind:              kind,
		OwnerID:           ownerUUID,
		StartAt:           startAt,
		EndAt:             endAt,
		Reason:            reason,
		Attachments:       Attachments(req.Attachments),
		CachedStatus:      approval.StatusWaiting,
		CachedCancelState: approval.CancelNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("submit request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	metrics.RecordTransition("submit", outcomeOK)
	s.logger.Info("submit request success",
		zap.String("request_id", r.ID.String()),
		zap.String("owner_id", r.OwnerID.String()),
		zap.String("kind", string(r.Kind)),
	)
	return mapToResponse(*r), nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, comment, approveTransition)
}

func (s *service) Reject(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, comment, rejectTransition)
}

func (s *service) RequestCancel(ctx context.Context, actor Actor, id, reason string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, reason, requestCancelTransition)
}

func (s *service) ApproveCancel(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, comment, approveCancelTransition)
}

func (s *service) RejectCancel(ctx context.Context, actor Actor, id, comment string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, comment, rejectCancelTransition)
}

func (s *service) Withdraw(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, "", withdrawTransition)
}

// apply runs one transition under the request row lock. The event append and
// the cache update commit together or not at all.
func (s *service) apply(ctx context.Context, actor Actor, id, comment string, t transition) (RequestResponse, error) {
	action := string(t.action)
	logger := s.logger.With(
		zap.String("action", action),
		zap.String("request_id", id),
		zap.String("actor_id", actor.EmployeeID),
	)
	logger.Debug("transition requested")

	requestUUID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequestID
	}
	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidActorID
	}
	comment = strings.TrimSpace(comment)
	if t.reasonRequired && comment == "" {
		return RequestResponse{}, requesterrors.ErrCancelReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transition begin tx failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ltx := s.log.WithTx(tx)

	r, err := qtx.FindByIDForUpdate(ctx, requestUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordTransition(action, outcomeNotFound)
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		logger.Error("transition lock request failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}

	history, err := ltx.ListByRequest(ctx, requestUUID.String())
	if err != nil {
		logger.Error("transition load history failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}
	current := approval.Resolve(history)

	allowed, err := s.rbac.Can(rbac.Subject{Role: actor.Role, IsOwner: r.OwnerID == actorUUID}, t.action)
	if err != nil {
		logger.Error("transition rbac check failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}
	if !allowed {
		logger.Warn("transition forbidden", zap.String("role", string(actor.Role)))
		metrics.RecordTransition(action, outcomeForbidden)
		return RequestResponse{}, requesterrors.ErrForbidden
	}

	if !t.allowed(current) {
		logger.Warn("transition invalid state",
			zap.String("status", string(current.Status)),
			zap.String("cancel_state", string(current.Cancel)),
		)
		metrics.RecordTransition(action, outcomeState)
		return RequestResponse{}, requesterrors.InvalidState(action, string(current.Status), string(current.Cancel))
	}

	event := &approval.Event{
		ID:        uuid.New(),
		RequestID: requestUUID,
		Sequence:  approval.NextSequence(history),
		ActorID:   actorUUID,
		Type:      t.event,
		Comment:   comment,
		CreatedAt: s.eventTime(history),
	}
	if err := ltx.Append(ctx, event); err != nil {
		logger.Error("transition append failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}

	next := approval.Resolve(append(history, *event))
	if err := qtx.UpdateCachedStatus(ctx, requestUUID.String(), next, event.Sequence); err != nil {
		logger.Error("transition cache update failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("transition commit failed", zap.Error(err))
		metrics.RecordTransition(action, outcomeError)
		return RequestResponse{}, err
	}

	metrics.RecordTransition(action, outcomeOK)
	logger.Info("transition success",
		zap.Int64("sequence", event.Sequence),
		zap.String("status", string(next.Status)),
		zap.String("cancel_state", string(next.Cancel)),
	)

	r.CachedStatus = next.Status
	r.CachedCancelState = next.Cancel
	r.LastSequence = event.Sequence
	r.UpdatedAt = s.now()

	if t.notify {
		s.notify(ctx, *r, *event, next)
	}
	return mapToResponse(*r), nil
}

// eventTime keeps the stream ordered even if the clock steps backwards.
func (s *service) eventTime(history []approval.Event) time.Time {
	now := s.now()
	for _, e := range history {
		if e.CreatedAt.After(now) {
			now = e.CreatedAt
		}
	}
	return now
}

func (s *service) notify(ctx context.Context, r Request, e approval.Event, res approval.Resolution) {
	evt := events.RequestDecidedEvent{
		EventType:     string(e.Type),
		CorrelationID: contextutil.GetRequestID(ctx),
		RequestID:     r.ID.String(),
		Kind:          string(r.Kind),
		OwnerID:       r.OwnerID.String(),
		ActorID:       e.ActorID.String(),
		Comment:       e.Comment,
		Status:        string(res.Status),
		CancelState:   string(res.Cancel),
		Sequence:      e.Sequence,
		OccurredAt:    e.CreatedAt,
	}
	if err := s.notifier.RequestDecided(ctx, evt); err != nil {
		metrics.RecordNotificationFailure()
		s.logger.Error("request decided notification failed",
			zap.String("request_id", evt.RequestID),
			zap.String("event_type", evt.EventType),
			zap.Error(err),
		)
	}
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	r, err := s.findVisible(ctx, s.repo, actor, id)
	if err != nil {
		return RequestResponse{}, err
	}
	return mapToResponse(*r), nil
}

func (s *service) List(ctx context.Context, actor Actor, q ListQuery) ([]RequestResponse, int64, error) {
	f := Filter{
		OwnerID:  q.OwnerID,
		Status:   approval.Status(q.Status),
		Kind:     Kind(q.Kind),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, requesterrors.ErrInvalidStatusFilter
	}
	if f.Kind != "" && f.Kind != KindLeave && f.Kind != KindOvertime {
		return nil, 0, requesterrors.ErrInvalidKind
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if q.From != "" {
		from, err := time.ParseInLocation(dateLayout, q.From, time.UTC)
		if err != nil {
			return nil, 0, requesterrors.ErrInvalidDateFormat
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(dateLayout, q.To, time.UTC)
		if err != nil {
			return nil, 0, requesterrors.ErrInvalidDateFormat
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, 0, requesterrors.ErrInvalidDateRange
	}

	readAll, err := s.rbac.Can(rbac.Subject{Role: actor.Role}, rbac.ActionReadAll)
	if err != nil {
		return nil, 0, err
	}
	if !readAll {
		if f.OwnerID != "" && f.OwnerID != actor.EmployeeID {
			return nil, 0, requesterrors.ErrForbidden
		}
		f.OwnerID = actor.EmployeeID
	}

	requests, total, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("list requests failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, mapToResponse(r))
	}
	return out, total, nil
}

// History reads the cached row and the log from one snapshot so a concurrent
// decision cannot make them disagree.
func (s *service) History(ctx context.Context, actor Actor, id string) (HistoryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HistoryResponse{}, requesterrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		s.logger.Error("history begin tx failed", zap.String("request_id", id), zap.Error(err))
		return HistoryResponse{}, err
	}
	// read-only; rolling back ends the snapshot
	defer tx.Rollback()

	r, err := s.findVisible(ctx, s.repo.WithTx(tx), actor, id)
	if err != nil {
		return HistoryResponse{}, err
	}

	history, err := s.log.WithTx(tx).ListByRequest(ctx, r.ID.String())
	if err != nil {
		s.logger.Error("load request history failed", zap.String("request_id", id), zap.Error(err))
		return HistoryResponse{}, err
	}
	res := approval.Resolve(history)

	ordered := approval.Ordered(history)
	evts := make([]EventResponse, 0, len(ordered))
	for _, e := range ordered {
		evts = append(evts, EventResponse{
			ID:        e.ID.String(),
			Sequence:  e.Sequence,
			ActorID:   e.ActorID.String(),
			Type:      string(e.Type),
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt.UTC().Format(timestampLayout),
		})
	}

	consistent := res == r.Cached() && approval.NextSequence(history)-1 == r.LastSequence
	if !consistent {
		s.logger.Warn("request cache drift detected",
			zap.String("request_id", id),
			zap.String("cached_status", string(r.CachedStatus)),
			zap.String("status", string(res.Status)),
		)
	}

	return HistoryResponse{
		Request:         mapToResponse(*r),
		Status:          string(res.Status),
		CancelState:     string(res.Cancel),
		CacheConsistent: consistent,
		Events:          evts,
	}, nil
}

// findVisible loads a request the actor may read: their own, or any when the
// role can read all requests.
func (s *service) findVisible(ctx context.Context, repo Repository, actor Actor, id string) (*Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, requesterrors.ErrInvalidRequestID
	}

	r, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requesterrors.ErrRequestNotFound
		}
		s.logger.Error("find request failed", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}

	if r.OwnerID.String() == actor.EmployeeID {
		return r, nil
	}
	readAll, err := s.rbac.Can(rbac.Subject{Role: actor.Role}, rbac.ActionReadAll)
	if err != nil {
		return nil, err
	}
	if !readAll {
		return nil, requesterrors.ErrForbidden
	}
	return r, nil
}

// Reconcile compares every cached status with the one derived from the log.
// With repair set, drifted rows are rewritten under the row lock. Concurrent
// calls with the same mode share one scan.
func (s *service) Reconcile(ctx context.Context, repair bool) (ReconcileReport, error) {
	key := "reconcile:verify"
	if repair {
		key = "reconcile:repair"
	}
	// the shared scan must outlive any single caller that gives up
	scanCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.reconcile(scanCtx, repair)
	})
	if err != nil {
		return ReconcileReport{}, err
	}
	return v.(ReconcileReport), nil
}

func (s *service) reconcile(ctx context.Context, repair bool) (ReconcileReport, error) {
	report := ReconcileReport{Drifted: []DriftEntry{}}

	after := ""
	for {
		batch, histories, err := s.loadBatch(ctx, after)
		if err != nil {
			s.logger.Error("reconcile load batch failed", zap.String("after", after), zap.Error(err))
			return report, err
		}
		if len(batch) == 0 {
			break
		}

		for _, r := range batch {
			report.Checked++
			history := histories[r.ID.String()]
			res := approval.Resolve(history)
			if res == r.Cached() && approval.NextSequence(history)-1 == r.LastSequence {
				continue
			}

			entry := DriftEntry{
				RequestID:         r.ID.String(),
				CachedStatus:      string(r.CachedStatus),
				CachedCancelState: string(r.CachedCancelState),
				Status:            string(res.Status),
				CancelState:       string(res.Cancel),
			}
			s.logger.Warn("reconcile drift detected",
				zap.String("request_id", entry.RequestID),
				zap.String("cached_status", entry.CachedStatus),
				zap.String("status", entry.Status),
			)

			if repair {
				if err := s.repair(ctx, r.ID.String()); err != nil {
					s.logger.Error("reconcile repair failed", zap.String("request_id", entry.RequestID), zap.Error(err))
					return report, err
				}
				entry.Repaired = true
				report.Repaired++
			}
			report.Drifted = append(report.Drifted, entry)
		}

		after = batch[len(batch)-1].ID.String()
		if len(batch) < reconcileBatch {
			break
		}
	}

	s.logger.Info("reconcile finished",
		zap.Int("checked", report.Checked),
		zap.Int("drifted", len(report.Drifted)),
		zap.Int("repaired", report.Repaired),
	)
	return report, nil
}

// loadBatch reads one page of requests and their logs from a single snapshot.
// The snapshot is closed before any repair opens its own transaction.
func (s *service) loadBatch(ctx context.Context, after string) ([]Request, map[string][]approval.Event, error) {
	tx, err := s.db.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	batch, err := s.repo.WithTx(tx).ListAfter(ctx, after, reconcileBatch)
	if err != nil || len(batch) == 0 {
		return batch, nil, err
	}

	ids := make([]string, 0, len(batch))
	for _, r := range batch {
		ids = append(ids, r.ID.String())
	}
	histories, err := s.log.WithTx(tx).ListByRequests(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return batch, histories, nil
}

func (s *service) repair(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByIDForUpdate(ctx, id); err != nil {
		return err
	}
	history, err := s.log.WithTx(tx).ListByRequest(ctx, id)
	if err != nil {
		return err
	}
	res := approval.Resolve(history)
	if err := qtx.UpdateCachedStatus(ctx, id, res, approval.NextSequence(history)-1); err != nil {
		return err
	}
	return tx.Commit()
}

// parsePeriod turns the submitted dates and times into an inclusive UTC
// period. Leave spans whole days, overtime is a window on one day.
func parsePeriod(kind Kind, req SubmitRequest) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}

	switch kind {
	case KindLeave:
		end := start
		if req.EndDate != "" {
			end, err = time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
			if err != nil {
				return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
			}
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateRange
		}
		return start, end, nil

	case KindOvertime:
		from, err := time.Parse(clockLayout, req.StartTime)
		if err != nil {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidTimeFormat
		}
		to, err := time.Parse(clockLayout, req.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidTimeFormat
		}
		startAt := start.Add(time.Duration(from.Hour())*time.Hour + time.Duration(from.Minute())*time.Minute)
		endAt := start.Add(time.Duration(to.Hour())*time.Hour + time.Duration(to.Minute())*time.Minute)
		if !endAt.After(startAt) {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidTimeRange
		}
		return startAt, endAt, nil
	}

	return time.Time{}, time.Time{}, requesterrors.ErrInvalidKind
}

func mapToResponse(r Request) RequestResponse {
	attachments := []string(r.Attachments)
	if attachments == nil {
		attachments = []string{}
	}
	return RequestResponse{
		ID:           r.ID.String(),
		Kind:         string(r.Kind),
		OwnerID:      r.OwnerID.String(),
		StartAt:      r.StartAt.UTC().Format(timestampLayout),
		EndAt:        r.EndAt.UTC().Format(timestampLayout),
		Reason:       r.Reason,
		Attachments:  attachments,
		Status:       string(r.CachedStatus),
		CancelState:  string(r.CachedCancelState),
		LastSequence: r.LastSequence,
		CreatedAt:    r.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:    r.UpdatedAt.UTC().Format(timestampLayout),
	}
}

// StatusOf returns the resolution a response was rendered from.
func StatusOf(r RequestResponse) approval.Resolution {
	return approval.Resolution{Status: approval.Status(r.Status), Cancel: approval.CancelState(r.CancelState)}
}
