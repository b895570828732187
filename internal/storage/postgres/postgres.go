package postgres

import (
	"context"
	"errors"

	"go-leave/internal/model"
	"go-leave/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// Store persists users and leave requests in PostgreSQL through gorm.
type Store struct {
	db     *gorm.DB
	now    storage.Clock
	newID  storage.IDGenerator
	logger *zap.Logger
}

type Option func(*Store)

func WithClock(c storage.Clock) Option {
	return func(s *Store) { s.now = c }
}

func WithIDGenerator(g storage.IDGenerator) Option {
	return func(s *Store) { s.newID = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.Named("storage.postgres")
		}
	}
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		now:    storage.SystemClock,
		newID:  storage.NewID,
		logger: zap.L().Named("storage.postgres"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) fail(op string, err error) error {
	s.logger.Error("storage operation failed", zap.String("op", op), zap.Error(err))
	return storage.Wrap(op, err)
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, storage.ErrNotFound
	}
	if err != nil {
		return model.User{}, s.fail("get user", err)
	}
	return rec.toModel(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, storage.ErrNotFound
	}
	if err != nil {
		return model.User{}, s.fail("get user by email", err)
	}
	return rec.toModel(), nil
}

func (s *Store) CreateUser(ctx context.Context, in model.InsertUser) (model.User, error) {
	id := in.ID
	if id == "" {
		id = s.newID()
	}
	u := model.NewUser(id, in, s.now())
	rec := toUserRecord(u)

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("create user duplicate id", zap.String("user_id", id))
			return model.User{}, storage.ErrConflict
		}
		return model.User{}, s.fail("create user", err)
	}
	return u, nil
}

func (s *Store) GetLeaveRequest(ctx context.Context, id string) (model.LeaveRequest, error) {
	var rec leaveRequestRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.LeaveRequest{}, storage.ErrNotFound
	}
	if err != nil {
		return model.LeaveRequest{}, s.fail("get leave request", err)
	}
	return rec.toModel(), nil
}

func (s *Store) GetAllLeaveRequests(ctx context.Context) ([]model.LeaveRequest, error) {
	var recs []leaveRequestRecord
	err := s.db.WithContext(ctx).
		Order("submitted_at DESC").
		Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, s.fail("get all leave requests", err)
	}
	return toLeaveRequests(recs), nil
}

func (s *Store) GetUserLeaveRequests(ctx context.Context, userID string) ([]model.LeaveRequest, error) {
	var recs []leaveRequestRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, s.fail("get user leave requests", err)
	}
	return toLeaveRequests(recs), nil
}

func (s *Store) CreateLeaveRequest(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
	r := model.NewLeaveRequest(s.newID(), in, s.now())
	rec := toLeaveRequestRecord(r)

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.LeaveRequest{}, s.fail("create leave request", err)
	}
	return r, nil
}

// UpdateLeaveRequest locks the row for the read-merge-write so concurrent
// decisions on the same request are serialised.
func (s *Store) UpdateLeaveRequest(ctx context.Context, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
	var updated model.LeaveRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec leaveRequestRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		current := rec.toModel()
		if err := storage.CheckExpected(current, upd); err != nil {
			return err
		}

		updated = upd.Apply(current)
		updated.UpdatedAt = model.NextUpdatedAt(current.UpdatedAt, s.now())
		next := toLeaveRequestRecord(updated)

		return tx.Model(&leaveRequestRecord{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":           next.Status,
				"rejection_reason": next.RejectionReason,
				"approved_by":      next.ApprovedBy,
				"updated_at":       next.UpdatedAt,
			}).Error
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrConflict) {
			return model.LeaveRequest{}, err
		}
		return model.LeaveRequest{}, s.fail("update leave request", err)
	}
	return updated, nil
}

func (s *Store) DeleteLeaveRequest(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&leaveRequestRecord{}, "id = ?", id)
	if res.Error != nil {
		return false, s.fail("delete leave request", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
