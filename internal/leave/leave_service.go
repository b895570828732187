package leave

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/identity"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/model"
	"go-leave/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error)
	GetAll(ctx context.Context, filter ListFilter) ([]model.LeaveRequest, error)
	// GetMine lists the caller's own requests, provisioning the caller first.
	GetMine(ctx context.Context, caller identity.Identity, filter ListFilter) ([]model.LeaveRequest, error)
	GetByID(ctx context.Context, id string) (model.LeaveRequest, error)
	// Update applies a status decision. caller may be zero for anonymous
	// requests.
	Update(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, filter ListFilter) (Stats, error)
	// Caller resolves the user record behind an identity.
	Caller(ctx context.Context, caller identity.Identity) (model.User, error)
}

// UserProvisioner is the part of the user service this module needs.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, caller identity.Identity) (model.User, error)
}

type Options struct {
	// AllowRedecide lets a decided request be decided again. When false, a
	// decision only applies to a pending request.
	AllowRedecide bool
	Publisher     EventPublisher
	Cache         redis.Cmdable
	CacheTTL      time.Duration
	Clock         func() time.Time
}

type service struct {
	store     storage.Storage
	users     UserProvisioner
	redecide  bool
	publisher EventPublisher
	cache     *listCache
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(store storage.Storage, users UserProvisioner, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}

	s := &service{
		store:     store,
		users:     users,
		redecide:  opts.AllowRedecide,
		publisher: opts.Publisher,
		now:       opts.Clock,
		logger:    l,
	}
	if s.publisher == nil {
		s.publisher = NewNoopEventPublisher()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.cache = newListCache(opts.Cache, opts.CacheTTL, l)
	return s
}

func (s *service) Create(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
	s.logger.Debug("create leave request",
		zap.String("user_id", in.UserID),
		zap.String("leave_type", string(in.LeaveType)),
		zap.String("from_date", in.FromDate.String()),
		zap.String("to_date", in.ToDate.String()),
	)

	req, err := s.store.CreateLeaveRequest(ctx, in)
	if err != nil {
		s.logger.Error("create leave request failed", zap.String("user_id", in.UserID), zap.Error(err))
		return model.LeaveRequest{}, leaveerrors.ErrCreateFailed.WithCause(err)
	}

	s.cache.invalidate(ctx)
	s.publish(ctx, events.LeaveRequestSubmitted, req)

	s.logger.Info("leave request submitted",
		zap.String("leave_request_id", req.ID),
		zap.String("user_id", req.UserID),
	)
	return req, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]model.LeaveRequest, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	reqs, err := s.cache.get(ctx, s.store.GetAllLeaveRequests)
	if err != nil {
		s.logger.Error("get all leave requests failed", zap.Error(err))
		return nil, leaveerrors.ErrFetchFailed.WithCause(err)
	}
	return filter.Apply(reqs), nil
}

func (s *service) GetMine(ctx context.Context, caller identity.Identity, filter ListFilter) ([]model.LeaveRequest, error) {
	if caller.Subject == "" {
		return nil, leaveerrors.ErrUserIDRequired
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	if _, err := s.Caller(ctx, caller); err != nil {
		return nil, err
	}

	reqs, err := s.store.GetUserLeaveRequests(ctx, caller.Subject)
	if err != nil {
		s.logger.Error("get user leave requests failed", zap.String("user_id", caller.Subject), zap.Error(err))
		return nil, leaveerrors.ErrFetchFailed.WithCause(err)
	}
	return filter.Apply(reqs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (model.LeaveRequest, error) {
	req, err := s.store.GetLeaveRequest(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.LeaveRequest{}, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("get leave request failed", zap.String("leave_request_id", id), zap.Error(err))
		return model.LeaveRequest{}, leaveerrors.ErrFetchFailed.WithCause(err)
	}
	return req, nil
}

func (s *service) Update(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
	s.logger.Debug("update leave request",
		zap.String("leave_request_id", id),
		zap.String("actor_id", caller.Subject),
		zap.String("target_status", string(upd.Status)),
	)

	// Without redecide every update is guarded by "currently pending", so a
	// decided request can neither be decided again nor reopened.
	if !s.redecide && upd.ExpectedStatus == nil {
		pending := model.StatusPending
		upd.ExpectedStatus = &pending
	}

	if upd.Status == model.StatusApproved && upd.ApprovedBy == nil && caller.Subject != "" {
		if actor, err := s.Caller(ctx, caller); err == nil {
			upd.ApprovedBy = &actor.Name
		} else {
			s.logger.Warn("resolve approver failed", zap.String("actor_id", caller.Subject), zap.Error(err))
		}
	}

	req, err := s.store.UpdateLeaveRequest(ctx, id, upd)
	if err != nil {
		return model.LeaveRequest{}, s.mapUpdateError(id, err)
	}

	s.cache.invalidate(ctx)
	if upd.ExpectedStatus == nil || *upd.ExpectedStatus != upd.Status {
		s.publish(ctx, events.EventTypeForStatus(req.Status), req)
	}

	s.logger.Info("leave request updated",
		zap.String("leave_request_id", req.ID),
		zap.String("status", string(req.Status)),
		zap.String("actor_id", caller.Subject),
	)
	return req, nil
}

func (s *service) mapUpdateError(id string, err error) error {
	var conflict *storage.ConflictError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return leaveerrors.ErrLeaveNotFound
	case errors.As(err, &conflict):
		s.logger.Warn("leave request update conflict",
			zap.String("leave_request_id", id),
			zap.String("expected", string(conflict.Expected)),
			zap.String("actual", string(conflict.Actual)),
		)
		return leaveerrors.ErrStatusConflict.
			WithDetails(ConflictDetails{ID: conflict.ID, Expected: conflict.Expected, Actual: conflict.Actual}).
			WithCause(err)
	case errors.Is(err, storage.ErrConflict):
		return leaveerrors.ErrStatusConflict.WithCause(err)
	default:
		s.logger.Error("update leave request failed", zap.String("leave_request_id", id), zap.Error(err))
		return leaveerrors.ErrUpdateFailed.WithCause(err)
	}
}

func (s *service) Delete(ctx context.Context, id string) error {
	req, err := s.store.GetLeaveRequest(ctx, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("load leave request before delete failed", zap.String("leave_request_id", id), zap.Error(err))
	}

	deleted, err := s.store.DeleteLeaveRequest(ctx, id)
	if err != nil {
		s.logger.Error("delete leave request failed", zap.String("leave_request_id", id), zap.Error(err))
		return leaveerrors.ErrDeleteFailed.WithCause(err)
	}
	if !deleted {
		return leaveerrors.ErrLeaveNotFound
	}

	s.cache.invalidate(ctx)
	if req.ID == "" {
		req.ID = id
	}
	s.publish(ctx, events.LeaveRequestDeleted, req)

	s.logger.Info("leave request deleted", zap.String("leave_request_id", id))
	return nil
}

func (s *service) Stats(ctx context.Context, filter ListFilter) (Stats, error) {
	reqs, err := s.GetAll(ctx, ListFilter{Department: filter.Department})
	if err != nil {
		return Stats{}, err
	}
	return computeStats(reqs), nil
}

func (s *service) Caller(ctx context.Context, caller identity.Identity) (model.User, error) {
	if caller.Subject == "" {
		return model.User{}, leaveerrors.ErrUserIDRequired
	}
	if s.users == nil {
		return model.User{}, leaveerrors.ErrUserIDRequired
	}
	return s.users.EnsureUser(ctx, caller)
}

// publish never fails the caller; delivery problems are logged.
func (s *service) publish(ctx context.Context, eventType string, req model.LeaveRequest) {
	event := events.NewLeaveRequestEvent(eventType, req, s.now())
	if err := s.publisher.PublishLeaveRequestEvent(ctx, event); err != nil {
		s.logger.Error("publish leave request event failed",
			zap.String("leave_request_id", req.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func validateFilter(f ListFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return leaveerrors.ErrInvalidFilter
	}
	return nil
}
