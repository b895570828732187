package user

import (
	"context"
	"errors"
	"net/http"

	"go-leave/internal/identity"
	"go-leave/internal/model"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/storage"
	usererrors "go-leave/internal/user/errors"

	"go.uber.org/zap"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, in model.InsertUser) (model.User, error)
	// EnsureUser returns the caller's user record, creating it from the
	// identity on first sight.
	EnsureUser(ctx context.Context, caller identity.Identity) (model.User, error)
}

type service struct {
	store       storage.Storage
	provisioner *identity.Provisioner
	logger      *zap.Logger
}

func NewService(store storage.Storage, provisioner *identity.Provisioner, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	if provisioner == nil {
		provisioner = identity.NewProvisioner(nil)
	}
	return &service{store: store, provisioner: provisioner, logger: l}
}

func (s *service) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return model.User{}, mapStorageError(err)
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, in model.InsertUser) (model.User, error) {
	u, err := s.store.CreateUser(ctx, in)
	if err != nil {
		s.logger.Warn("create user failed", zap.String("user_id", in.ID), zap.Error(err))
		return model.User{}, mapStorageError(err)
	}

	s.logger.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *service) EnsureUser(ctx context.Context, caller identity.Identity) (model.User, error) {
	if caller.Subject == "" {
		return model.User{}, usererrors.ErrUserIDRequired
	}

	u, err := s.store.GetUser(ctx, caller.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.User{}, mapStorageError(err)
	}

	u, err = s.store.CreateUser(ctx, s.provisioner.Profile(caller))
	switch {
	case err == nil:
		s.logger.Info("user provisioned",
			zap.String("user_id", u.ID),
			zap.String("email", u.Email),
			zap.String("role", string(u.Role)),
		)
		return u, nil
	case errors.Is(err, storage.ErrConflict):
		// Another request provisioned the same subject first.
		return s.GetByID(ctx, caller.Subject)
	default:
		return model.User{}, mapStorageError(err)
	}
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return usererrors.ErrUserNotFound
	case errors.Is(err, storage.ErrConflict):
		return usererrors.ErrUserAlreadyExists
	default:
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to access users", http.StatusInternalServerError)
	}
}
