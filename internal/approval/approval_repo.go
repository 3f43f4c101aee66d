package approval

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	approvalerrors "github.com/PeterTHA/bo-resource-management/internal/approval/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const sequenceConstraint = "uq_approval_events_request_sequence"

// Repository is the append-only approval log. It has no update or delete.
//
//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	ListByRequest(ctx context.Context, requestID string) ([]Event, error)
	ListByRequests(ctx context.Context, requestIDs []string) (map[string][]Event, error)
	Append(ctx context.Context, e *Event) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn runs statements on the bound transaction when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) ListByRequest(ctx context.Context, requestID string) ([]Event, error) {
	var events []Event
	err := r.conn(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Order("sequence ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]Event, error) {
	out := make(map[string][]Event, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}

	var events []Event
	err := r.conn(ctx).
		Where("request_id IN ?", requestIDs).
		Order("created_at ASC").
		Order("sequence ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		key := e.RequestID.String()
		out[key] = append(out[key], e)
	}
	return out, nil
}

func (r *repository) Append(ctx context.Context, e *Event) error {
	if !e.Type.Valid() {
		return approvalerrors.ErrInvalidEventType
	}
	if e.Sequence <= 0 {
		return approvalerrors.ErrInvalidSequence
	}
	return mapRepositoryError(r.conn(ctx).Create(e).Error)
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == sequenceConstraint {
			return approvalerrors.ErrSequenceConflict
		}
		return err
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") && strings.Contains(errMsg, "approval_events.sequence") {
		return approvalerrors.ErrSequenceConflict
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, sequenceConstraint) {
		return approvalerrors.ErrSequenceConflict
	}
	return err
}
