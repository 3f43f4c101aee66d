package request_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/approval"
	approvalerrors "github.com/PeterTHA/bo-resource-management/internal/approval/errors"
	approvalMock "github.com/PeterTHA/bo-resource-management/internal/approval/mock"
	"github.com/PeterTHA/bo-resource-management/internal/events"
	"github.com/PeterTHA/bo-resource-management/internal/rbac"
	rbacMock "github.com/PeterTHA/bo-resource-management/internal/rbac/mock"
	"github.com/PeterTHA/bo-resource-management/internal/request"
	requesterrors "github.com/PeterTHA/bo-resource-management/internal/request/errors"
	requestMock "github.com/PeterTHA/bo-resource-management/internal/request/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRequestRepository struct {
	createFn               func(ctx context.Context, r *request.Request) error
	findByIDFn             func(ctx context.Context, id string) (*request.Request, error)
	findByIDForUpdateFn    func(ctx context.Context, id string) (*request.Request, error)
	updateCachedStatusFn   func(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error
	listFn                 func(ctx context.Context, f request.Filter) ([]request.Request, int64, error)
	listAfterFn            func(ctx context.Context, afterID string, limit int) ([]request.Request, error)
	hasOverlappingPeriodFn func(ctx context.Context, ownerID string, kind request.Kind, startAt, endAt time.Time) (bool, error)
}

func (f *fakeRequestRepository) WithTx(tx *sql.Tx) request.Repository { return f }

func (f *fakeRequestRepository) Create(ctx context.Context, r *request.Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRequestRepository) FindByID(ctx context.Context, id string) (*request.Request, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) FindByIDForUpdate(ctx context.Context, id string) (*request.Request, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) UpdateCachedStatus(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error {
	if f.updateCachedStatusFn != nil {
		return f.updateCachedStatusFn(ctx, id, res, lastSequence)
	}
	return nil
}

func (f *fakeRequestRepository) List(ctx context.Context, filter request.Filter) ([]request.Request, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeRequestRepository) ListAfter(ctx context.Context, afterID string, limit int) ([]request.Request, error) {
	if f.listAfterFn != nil {
		return f.listAfterFn(ctx, afterID, limit)
	}
	return nil, nil
}

func (f *fakeRequestRepository) HasOverlappingPeriod(ctx context.Context, ownerID string, kind request.Kind, startAt, endAt time.Time) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, ownerID, kind, startAt, endAt)
	}
	return false, nil
}

type fakeApprovalRepository struct {
	events   []approval.Event
	listErr  error
	appendFn func(ctx context.Context, e *approval.Event) error
}

func (f *fakeApprovalRepository) WithTx(tx *sql.Tx) approval.Repository { return f }

func (f *fakeApprovalRepository) ListByRequest(ctx context.Context, requestID string) ([]approval.Event, error) {
	return f.events, f.listErr
}

func (f *fakeApprovalRepository) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]approval.Event, error) {
	out := map[string][]approval.Event{}
	for _, e := range f.events {
		out[e.RequestID.String()] = append(out[e.RequestID.String()], e)
	}
	return out, f.listErr
}

func (f *fakeApprovalRepository) Append(ctx context.Context, e *approval.Event) error {
	if f.appendFn != nil {
		return f.appendFn(ctx, e)
	}
	return nil
}

type fakeRBAC struct {
	allowed bool
	err     error
	calls   []rbac.Subject
}

func (f *fakeRBAC) Can(subject rbac.Subject, action rbac.Action) (bool, error) {
	f.calls = append(f.calls, subject)
	return f.allowed, f.err
}

type notifierFunc func(ctx context.Context, evt events.RequestDecidedEvent) error

func (fn notifierFunc) RequestDecided(ctx context.Context, evt events.RequestDecidedEvent) error {
	return fn(ctx, evt)
}

type requestServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *fakeRequestRepository
	log     *fakeApprovalRepository
	rbac    *fakeRBAC
	service request.Service
}

func setupRequestServiceTest(t *testing.T, notifier request.Notifier) *requestServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := &fakeRequestRepository{}
	log := &fakeApprovalRepository{}
	rbacService := &fakeRBAC{allowed: true}

	return &requestServiceDeps{
		sqlMock: sqlMock,
		repo:    repo,
		log:     log,
		rbac:    rbacService,
		service: request.NewService(db, repo, log, rbacService, notifier),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func waitingRequest(ownerID uuid.UUID) *request.Request {
	return &request.Request{
		ID:                uuid.New(),
		Kind:              request.KindLeave,
		OwnerID:           ownerID,
		StartAt:           time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		EndAt:             time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		Reason:            "trip",
		CachedStatus:      approval.StatusWaiting,
		CachedCancelState: approval.CancelNone,
	}
}

func TestRequestService_Approve(t *testing.T) {
	ctx := context.Background()
	admin := request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleAdmin}

	t.Run("success appends and caches in one transaction", func(t *testing.T) {
		notified := 0
		deps := setupRequestServiceTest(t, notifierFunc(func(ctx context.Context, evt events.RequestDecidedEvent) error {
			notified++
			assert.Equal(t, "approve", evt.EventType)
			assert.Equal(t, "APPROVED", evt.Status)
			return nil
		}))
		r := waitingRequest(uuid.New())

		var appended *approval.Event
		var cached approval.Resolution
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		deps.log.appendFn = func(ctx context.Context, e *approval.Event) error {
			appended = e
			return nil
		}
		deps.repo.updateCachedStatusFn = func(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error {
			cached = res
			assert.Equal(t, int64(1), lastSequence)
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Approve(ctx, admin, r.ID.String(), " looks good ")

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, approval.EventApprove, appended.Type)
		assert.Equal(t, "looks good", appended.Comment)
		assert.Equal(t, int64(1), appended.Sequence)
		assert.Equal(t, approval.StatusApproved, cached.Status)
		assert.Equal(t, 1, notified)
		assert.False(t, deps.rbac.calls[0].IsOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid request id", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)

		_, err := deps.service.Approve(ctx, admin, "not-a-uuid", "")

		assert.ErrorIs(t, err, requesterrors.ErrInvalidRequestID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("begin tx failure", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		deps.sqlMock.ExpectBegin().WillReturnError(errors.New("db down"))

		_, err := deps.service.Approve(ctx, admin, uuid.NewString(), "")

		assert.EqualError(t, err, "db down")
	})

	t.Run("not found rolls back", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin, uuid.NewString(), "")

		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("forbidden appends nothing", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		deps.rbac.allowed = false
		r := waitingRequest(uuid.New())
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		deps.log.appendFn = func(ctx context.Context, e *approval.Event) error {
			t.Fatal("append must not be called")
			return nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin, r.ID.String(), "")

		assert.ErrorIs(t, err, requesterrors.ErrForbidden)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("state comes from the log not the cache", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		r := waitingRequest(uuid.New())
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		deps.log.events = []approval.Event{{
			ID:        uuid.New(),
			RequestID: r.ID,
			Sequence:  1,
			ActorID:   uuid.New(),
			Type:      approval.EventReject,
			CreatedAt: time.Now().UTC(),
		}}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin, r.ID.String(), "")

		assert.ErrorIs(t, err, requesterrors.ErrInvalidState)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("sequence conflict rolls back", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		r := waitingRequest(uuid.New())
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		deps.log.appendFn = func(ctx context.Context, e *approval.Event) error {
			return approvalerrors.ErrSequenceConflict
		}
		deps.repo.updateCachedStatusFn = func(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error {
			t.Fatal("cache must not be written")
			return nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin, r.ID.String(), "")

		assert.ErrorIs(t, err, approvalerrors.ErrSequenceConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("cache update failure rolls back", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		r := waitingRequest(uuid.New())
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		deps.repo.updateCachedStatusFn = func(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error {
			return errors.New("write failed")
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin, r.ID.String(), "")

		assert.EqualError(t, err, "write failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("notification failure is not returned", func(t *testing.T) {
		deps := setupRequestServiceTest(t, notifierFunc(func(ctx context.Context, evt events.RequestDecidedEvent) error {
			return errors.New("outbox down")
		}))
		r := waitingRequest(uuid.New())
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Approve(ctx, admin, r.ID.String(), "")

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRequestService_RequestCancel(t *testing.T) {
	ctx := context.Background()
	owner := request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleEmployee}

	t.Run("reason is required", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)

		_, err := deps.service.RequestCancel(ctx, owner, uuid.NewString(), "   ")

		assert.ErrorIs(t, err, requesterrors.ErrCancelReasonRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("owner is passed to the capability check", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		r := waitingRequest(uuid.MustParse(owner.EmployeeID))
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*request.Request, error) { return r, nil }
		deps.log.events = []approval.Event{{
			ID:        uuid.New(),
			RequestID: r.ID,
			Sequence:  1,
			ActorID:   uuid.New(),
			Type:      approval.EventApprove,
			CreatedAt: time.Now().UTC().Add(time.Hour),
		}}
		var appended *approval.Event
		deps.log.appendFn = func(ctx context.Context, e *approval.Event) error {
			appended = e
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RequestCancel(ctx, owner, r.ID.String(), "plans changed")

		assert.NoError(t, err)
		assert.Equal(t, "pending", resp.CancelState)
		assert.True(t, deps.rbac.calls[0].IsOwner)
		assert.Equal(t, int64(2), appended.Sequence)
		// never ordered before the previous event
		assert.False(t, appended.CreatedAt.Before(deps.log.events[0].CreatedAt))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	owner := request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleEmployee}

	tests := []struct {
		name    string
		req     request.SubmitRequest
		wantErr error
	}{
		{
			name:    "bad date",
			req:     request.SubmitRequest{Kind: "LEAVE", StartDate: "10-01-2024", Reason: "x"},
			wantErr: requesterrors.ErrInvalidDateFormat,
		},
		{
			name:    "end before start",
			req:     request.SubmitRequest{Kind: "LEAVE", StartDate: "2024-01-10", EndDate: "2024-01-09", Reason: "x"},
			wantErr: requesterrors.ErrInvalidDateRange,
		},
		{
			name:    "overtime without times",
			req:     request.SubmitRequest{Kind: "OVERTIME", StartDate: "2024-01-10", Reason: "x"},
			wantErr: requesterrors.ErrInvalidTimeFormat,
		},
		{
			name:    "overtime ends before it starts",
			req:     request.SubmitRequest{Kind: "OVERTIME", StartDate: "2024-01-10", StartTime: "20:00", EndTime: "18:00", Reason: "x"},
			wantErr: requesterrors.ErrInvalidTimeRange,
		},
		{
			name:    "unknown kind",
			req:     request.SubmitRequest{Kind: "SABBATICAL", StartDate: "2024-01-10", Reason: "x"},
			wantErr: requesterrors.ErrInvalidKind,
		},
		{
			name:    "blank reason",
			req:     request.SubmitRequest{Kind: "LEAVE", StartDate: "2024-01-10", Reason: "  "},
			wantErr: requesterrors.ErrReasonRequired,
		},
		{
			name:    "bad owner",
			req:     request.SubmitRequest{Kind: "LEAVE", OwnerID: "nope", StartDate: "2024-01-10", Reason: "x"},
			wantErr: requesterrors.ErrInvalidOwnerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupRequestServiceTest(t, nil)

			_, err := deps.service.Submit(ctx, owner, tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		})
	}

	t.Run("creates waiting request", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		var created *request.Request
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			created = r
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Submit(ctx, owner, request.SubmitRequest{
			Kind:      "LEAVE",
			StartDate: "2024-01-10",
			Reason:    "trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, "WAITING", resp.Status)
		assert.Equal(t, approval.CancelNone, created.CachedCancelState)
		assert.Equal(t, created.StartAt, created.EndAt)
		assert.Equal(t, owner.EmployeeID, created.OwnerID.String())
		assert.Empty(t, deps.rbac.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlap rolls back", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, ownerID string, kind request.Kind, startAt, endAt time.Time) (bool, error) {
			return true, nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Submit(ctx, owner, request.SubmitRequest{
			Kind:      "LEAVE",
			StartDate: "2024-01-10",
			Reason:    "trip",
		})

		assert.ErrorIs(t, err, requesterrors.ErrRequestOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRequestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("employees are scoped to their own requests", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		deps.rbac.allowed = false
		employee := request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleEmployee}
		deps.repo.listFn = func(ctx context.Context, f request.Filter) ([]request.Request, int64, error) {
			assert.Equal(t, employee.EmployeeID, f.OwnerID)
			assert.Equal(t, 1, f.Page)
			assert.Equal(t, 20, f.PageSize)
			return []request.Request{*waitingRequest(uuid.MustParse(employee.EmployeeID))}, 1, nil
		}

		items, total, err := deps.service.List(ctx, employee, request.ListQuery{})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, items, 1)
	})

	t.Run("page size is capped", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		deps.repo.listFn = func(ctx context.Context, f request.Filter) ([]request.Request, int64, error) {
			assert.Equal(t, 100, f.PageSize)
			assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *f.To)
			return nil, 0, nil
		}

		_, _, err := deps.service.List(ctx, request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleAdmin},
			request.ListQuery{PageSize: 500, From: "2024-01-01", To: "2024-01-31"})

		assert.NoError(t, err)
	})

	t.Run("invalid filters", func(t *testing.T) {
		deps := setupRequestServiceTest(t, nil)
		actor := request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleAdmin}

		_, _, err := deps.service.List(ctx, actor, request.ListQuery{Status: "DONE"})
		assert.ErrorIs(t, err, requesterrors.ErrInvalidStatusFilter)

		_, _, err = deps.service.List(ctx, actor, request.ListQuery{From: "yesterday"})
		assert.ErrorIs(t, err, requesterrors.ErrInvalidDateFormat)

		_, _, err = deps.service.List(ctx, actor, request.ListQuery{From: "2024-02-01", To: "2024-01-01"})
		assert.ErrorIs(t, err, requesterrors.ErrInvalidDateRange)
	})
}

func loggedEvents(requestID uuid.UUID, types ...approval.EventType) []approval.Event {
	at := time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)
	out := make([]approval.Event, 0, len(types))
	for i, typ := range types {
		out = append(out, approval.Event{
			ID:        uuid.New(),
			RequestID: requestID,
			ActorID:   uuid.New(),
			Type:      typ,
			Sequence:  int64(i + 1),
			CreatedAt: at.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestRequestService_CancelDecisions(t *testing.T) {
	ctx := context.Background()
	supervisor := request.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleSupervisor}

	type mocks struct {
		sqlMock  sqlmock.Sqlmock
		repo     *requestMock.MockRepository
		log      *approvalMock.MockRepository
		rbac     *rbacMock.MockService
		notifier *requestMock.MockNotifier
		service  request.Service
	}
	setup := func(t *testing.T) mocks {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		m := mocks{
			sqlMock:  sqlMock,
			repo:     requestMock.NewMockRepository(ctrl),
			log:      approvalMock.NewMockRepository(ctrl),
			rbac:     rbacMock.NewMockService(ctrl),
			notifier: requestMock.NewMockNotifier(ctrl),
		}
		m.repo.EXPECT().WithTx(gomock.Any()).Return(m.repo).AnyTimes()
		m.log.EXPECT().WithTx(gomock.Any()).Return(m.log).AnyTimes()
		m.service = request.NewService(db, m.repo, m.log, m.rbac, m.notifier)
		return m
	}

	t.Run("approve cancel from pending cancels the request", func(t *testing.T) {
		m := setup(t)
		r := waitingRequest(uuid.New())
		history := loggedEvents(r.ID, approval.EventApprove, approval.EventRequestCancel)

		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().FindByIDForUpdate(gomock.Any(), r.ID.String()).Return(r, nil)
		m.log.EXPECT().ListByRequest(gomock.Any(), r.ID.String()).Return(history, nil)
		m.rbac.EXPECT().Can(rbac.Subject{Role: rbac.RoleSupervisor}, rbac.ActionApproveCancel).Return(true, nil)
		m.log.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e *approval.Event) error {
			assert.Equal(t, approval.EventApproveCancel, e.Type)
			assert.Equal(t, int64(3), e.Sequence)
			return nil
		})
		m.repo.EXPECT().
			UpdateCachedStatus(gomock.Any(), r.ID.String(),
				approval.Resolution{Status: approval.StatusCanceled, Cancel: approval.CancelApproved}, int64(3)).
			Return(nil)
		m.sqlMock.ExpectCommit()
		m.notifier.EXPECT().RequestDecided(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, evt events.RequestDecidedEvent) error {
			assert.Equal(t, "approve_cancel", evt.EventType)
			assert.Equal(t, "CANCELED", evt.Status)
			return nil
		})

		resp, err := m.service.ApproveCancel(ctx, supervisor, r.ID.String(), "")

		assert.NoError(t, err)
		assert.Equal(t, "CANCELED", resp.Status)
		assert.Equal(t, "approved", resp.CancelState)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	notPending := []struct {
		name        string
		history     []approval.EventType
		status      string
		cancelState string
	}{
		{"waiting", nil, "WAITING", "none"},
		{"rejected", []approval.EventType{approval.EventReject}, "REJECTED", "none"},
		{"approved", []approval.EventType{approval.EventApprove}, "APPROVED", "none"},
		{"cancel rejected", []approval.EventType{approval.EventApprove, approval.EventRequestCancel, approval.EventRejectCancel}, "APPROVED", "rejected"},
		{"canceled", []approval.EventType{approval.EventApprove, approval.EventRequestCancel, approval.EventApproveCancel}, "CANCELED", "approved"},
		{"withdrawn", []approval.EventType{approval.EventWithdraw}, "WITHDRAWN", "none"},
	}

	for _, tt := range notPending {
		for _, decision := range []struct {
			action rbac.Action
			call   func(svc request.Service, id string) (request.RequestResponse, error)
		}{
			{rbac.ActionApproveCancel, func(svc request.Service, id string) (request.RequestResponse, error) {
				return svc.ApproveCancel(ctx, supervisor, id, "")
			}},
			{rbac.ActionRejectCancel, func(svc request.Service, id string) (request.RequestResponse, error) {
				return svc.RejectCancel(ctx, supervisor, id, "")
			}},
		} {
			t.Run(string(decision.action)+" from "+tt.name, func(t *testing.T) {
				m := setup(t)
				r := waitingRequest(uuid.New())

				m.sqlMock.ExpectBegin()
				m.repo.EXPECT().FindByIDForUpdate(gomock.Any(), r.ID.String()).Return(r, nil)
				m.log.EXPECT().ListByRequest(gomock.Any(), r.ID.String()).Return(loggedEvents(r.ID, tt.history...), nil)
				m.rbac.EXPECT().Can(gomock.Any(), decision.action).Return(true, nil)
				m.log.EXPECT().Append(gomock.Any(), gomock.Any()).Times(0)
				m.repo.EXPECT().UpdateCachedStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				m.notifier.EXPECT().RequestDecided(gomock.Any(), gomock.Any()).Times(0)
				m.sqlMock.ExpectRollback()

				_, err := decision.call(m.service, r.ID.String())

				assertInvalidState(t, err, tt.status, tt.cancelState)
				assert.NoError(t, m.sqlMock.ExpectationsWereMet())
			})
		}
	}

	t.Run("rbac failure rolls back", func(t *testing.T) {
		m := setup(t)
		r := waitingRequest(uuid.New())

		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().FindByIDForUpdate(gomock.Any(), r.ID.String()).Return(r, nil)
		m.log.EXPECT().ListByRequest(gomock.Any(), r.ID.String()).
			Return(loggedEvents(r.ID, approval.EventApprove, approval.EventRequestCancel), nil)
		m.rbac.EXPECT().Can(gomock.Any(), rbac.ActionRejectCancel).Return(false, errors.New("policy unavailable"))
		m.sqlMock.ExpectRollback()

		_, err := m.service.RejectCancel(ctx, supervisor, r.ID.String(), "")

		assert.EqualError(t, err, "policy unavailable")
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})
}
