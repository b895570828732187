package notification

import (
	"context"
	"fmt"
	"time"

	"go-leave/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Record stores a notification for the owner of a decided request.
	// Other event types are ignored.
	Record(ctx context.Context, event events.LeaveRequestEvent) (bool, error)
	ListMine(ctx context.Context, userID string, limit int64) ([]Notification, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func (s *service) Record(ctx context.Context, event events.LeaveRequestEvent) (bool, error) {
	if !event.Decision() || event.UserID == "" {
		return false, nil
	}

	n := Notification{
		ID:             uuid.NewString(),
		UserID:         event.UserID,
		LeaveRequestID: event.LeaveRequestID,
		Status:         event.Status,
		Message:        messageFor(event),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Push(ctx, n); err != nil {
		return false, err
	}

	s.logger.Info("notification recorded",
		zap.String("user_id", n.UserID),
		zap.String("leave_request_id", n.LeaveRequestID),
		zap.String("status", n.Status),
	)
	return true, nil
}

func (s *service) ListMine(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func messageFor(e events.LeaveRequestEvent) string {
	period := fmt.Sprintf("%s leave from %s to %s", e.LeaveType, e.FromDate, e.ToDate)
	if e.EventType == events.LeaveRequestRejected {
		return fmt.Sprintf("Your %s was rejected: %s", period, e.RejectionReason)
	}
	if e.ApprovedBy != "" {
		return fmt.Sprintf("Your %s was approved by %s", period, e.ApprovedBy)
	}
	return fmt.Sprintf("Your %s was approved", period)
}
