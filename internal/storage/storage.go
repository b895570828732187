package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-leave/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by lookups and updates when the id does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrConflict is returned when a write precondition does not hold
	// (expected status mismatch, duplicate user id, concurrent modification).
	ErrConflict = errors.New("storage: conflict")
	// ErrStorage marks backend I/O failures.
	ErrStorage = errors.New("storage: backend failure")
)

// Error wraps a backend failure with the operation that hit it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// Wrap turns a backend error into a *Error. Nil and already classified
// errors (not found, conflict) pass through.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// ConflictError describes a failed expected-status precondition.
type ConflictError struct {
	ID       string
	Expected model.Status
	Actual   model.Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("leave request %s is %s, expected %s", e.ID, e.Actual, e.Expected)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type Storage interface {
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, in model.InsertUser) (model.User, error)

	GetLeaveRequest(ctx context.Context, id string) (model.LeaveRequest, error)
	GetAllLeaveRequests(ctx context.Context) ([]model.LeaveRequest, error)
	GetUserLeaveRequests(ctx context.Context, userID string) ([]model.LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error)
	UpdateLeaveRequest(ctx context.Context, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error)
	DeleteLeaveRequest(ctx context.Context, id string) (bool, error)
}

// Clock and ID sources shared by the backends.
type (
	Clock       func() time.Time
	IDGenerator func() string
)

func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func NewID() string {
	return uuid.NewString()
}

// CheckExpected validates the optional status precondition of an update.
func CheckExpected(current model.LeaveRequest, upd model.LeaveRequestUpdate) error {
	if upd.ExpectedStatus == nil || *upd.ExpectedStatus == current.Status {
		return nil
	}
	return &ConflictError{ID: current.ID, Expected: *upd.ExpectedStatus, Actual: current.Status}
}

// SortBySubmittedDesc orders requests most recent first. Ties fall back to id
// so listings are stable between calls.
func SortBySubmittedDesc(reqs []model.LeaveRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].SubmittedAt.Equal(reqs[j].SubmittedAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].SubmittedAt.After(reqs[j].SubmittedAt)
	})
}
