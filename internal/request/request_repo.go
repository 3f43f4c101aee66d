package request

import (
	"context"
	"database/sql"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/approval"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	OwnerID  string
	Status   approval.Status
	Kind     Kind
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Request, error)
	UpdateCachedStatus(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error
	List(ctx context.Context, f Filter) ([]Request, int64, error)
	ListAfter(ctx context.Context, afterID string, limit int) ([]Request, error)
	HasOverlappingPeriod(ctx context.Context, ownerID string, kind Kind, startAt, endAt time.Time) (bool, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDForUpdate locks the request row until the transaction ends. All
// writers of a request's history go through this lock.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) UpdateCachedStatus(ctx context.Context, id string, res approval.Resolution, lastSequence int64) error {
	result := r.conn(ctx).
		Model(&Request{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"cached_status":       res.Status,
			"cached_cancel_state": res.Cancel,
			"last_sequence":       lastSequence,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Request, int64, error) {
	db := r.conn(ctx).Model(&Request{})
	if f.OwnerID != "" {
		db = db.Where("owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		db = db.Where("cached_status = ?", f.Status)
	}
	if f.Kind != "" {
		db = db.Where("kind = ?", f.Kind)
	}
	if f.From != nil {
		db = db.Where("end_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("start_at <= ?", *f.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []Request
	q := db.Order("start_at DESC").Order("id ASC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}
	if err := q.Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListAfter pages through every request in id order.
func (r *repository) ListAfter(ctx context.Context, afterID string, limit int) ([]Request, error) {
	db := r.conn(ctx).Order("id ASC").Limit(limit)
	if afterID != "" {
		db = db.Where("id > ?", afterID)
	}
	var requests []Request
	err := db.Find(&requests).Error
	return requests, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, ownerID string, kind Kind, startAt, endAt time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Request{}).
		Where("owner_id = ?", ownerID).
		Where("kind = ?", kind).
		Where("cached_status IN ?", []approval.Status{approval.StatusWaiting, approval.StatusApproved}).
		Where("NOT (end_at < ? OR start_at > ?)", startAt, endAt).
		Count(&count).Error
	return count > 0, err
}
