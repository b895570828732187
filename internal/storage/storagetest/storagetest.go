// Package storagetest holds the behavioural contract every storage backend
// must satisfy. Backends call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/model"
	"go-leave/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty backend driven by the given clock.
type Factory func(t *testing.T, clock storage.Clock) storage.Storage

// StepClock advances by step on every call, starting at start.
func StepClock(start time.Time, step time.Duration) storage.Clock {
	next := start
	return func() time.Time {
		cur := next
		next = next.Add(step)
		return cur
	}
}

// FrozenClock always returns t.
func FrozenClock(t time.Time) storage.Clock {
	return func() time.Time { return t }
}

func sampleLeave(userID string, leaveType model.LeaveType) model.InsertLeaveRequest {
	return model.InsertLeaveRequest{
		UserID:       userID,
		EmployeeID:   "EMP-" + userID,
		EmployeeName: "Employee " + userID,
		Department:   "Engineering",
		LeaveType:    leaveType,
		FromDate:     model.MustParseDate("2024-12-10"),
		ToDate:       model.MustParseDate("2024-12-12"),
		Reason:       "flu",
	}
}

func ptr[T any](v T) *T { return &v }

func Run(t *testing.T, factory Factory) {
	base := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

	t.Run("users", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		_, err := s.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		created, err := s.CreateUser(ctx, model.InsertUser{
			Email:      "john.doe@company.com",
			Name:       "John Doe",
			Role:       model.RoleEmployee,
			Department: "Engineering",
			EmployeeID: "EMP001",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, base, created.CreatedAt.UTC())

		got, err := s.GetUser(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, got.Email)
		assert.Equal(t, model.RoleEmployee, got.Role)
		assert.Equal(t, "EMP001", got.EmployeeID)

		byEmail, err := s.GetUserByEmail(ctx, "john.doe@company.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		_, err = s.GetUserByEmail(ctx, "nobody@company.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("create user keeps caller id", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		u, err := s.CreateUser(ctx, model.InsertUser{
			ID:         "idp-subject-42",
			Email:      "sarah.wilson@company.com",
			Name:       "Sarah Wilson",
			Role:       model.RoleHR,
			Department: "Human Resources",
		})
		require.NoError(t, err)
		assert.Equal(t, "idp-subject-42", u.ID)

		_, err = s.CreateUser(ctx, model.InsertUser{
			ID:         "idp-subject-42",
			Email:      "other@company.com",
			Name:       "Other",
			Role:       model.RoleEmployee,
			Department: "General",
		})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("create leave request", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		seen := map[string]bool{}
		for i := 0; i < 5; i++ {
			r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypeSick))
			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, r.Status)
			assert.True(t, r.SubmittedAt.Equal(r.UpdatedAt))
			assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
			seen[r.ID] = true
		}

		r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypeAnnual))
		require.NoError(t, err)
		got, err := s.GetLeaveRequest(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-10", got.FromDate.String())
		assert.Equal(t, "2024-12-12", got.ToDate.String())
		assert.Equal(t, model.LeaveTypeAnnual, got.LeaveType)
		assert.Equal(t, "Employee emp1", got.EmployeeName)
		assert.Empty(t, got.RejectionReason)
		assert.Empty(t, got.ApprovedBy)
	})

	t.Run("listing order and filtering", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Minute))

		var mine []string
		for i, userID := range []string{"emp1", "emp2", "emp1", "emp2", "emp1"} {
			r, err := s.CreateLeaveRequest(ctx, sampleLeave(userID, model.LeaveTypes[i%len(model.LeaveTypes)]))
			require.NoError(t, err)
			if userID == "emp1" {
				mine = append([]string{r.ID}, mine...)
			}
		}

		all, err := s.GetAllLeaveRequests(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].SubmittedAt.After(all[i-1].SubmittedAt), "not descending at %d", i)
		}

		again, err := s.GetAllLeaveRequests(ctx)
		require.NoError(t, err)
		assert.Equal(t, all, again)

		own, err := s.GetUserLeaveRequests(ctx, "emp1")
		require.NoError(t, err)
		ids := make([]string, len(own))
		for i, r := range own {
			assert.Equal(t, "emp1", r.UserID)
			ids[i] = r.ID
		}
		assert.Equal(t, mine, ids)

		none, err := s.GetUserLeaveRequests(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("approve merges and bumps updatedAt", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypeAnnual))
		require.NoError(t, err)

		updated, err := s.UpdateLeaveRequest(ctx, r.ID, model.LeaveRequestUpdate{
			Status:     model.StatusApproved,
			ApprovedBy: ptr("X"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, updated.Status)
		assert.Equal(t, "X", updated.ApprovedBy)
		assert.Equal(t, r.RejectionReason, updated.RejectionReason)
		assert.True(t, updated.UpdatedAt.After(r.UpdatedAt))
		assert.True(t, updated.SubmittedAt.Equal(r.SubmittedAt))
		assert.Equal(t, r.Reason, updated.Reason)

		stored, err := s.GetLeaveRequest(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, stored.Status)
		assert.Equal(t, "X", stored.ApprovedBy)
	})

	t.Run("updatedAt increases under a frozen clock", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, FrozenClock(base))

		r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypeSick))
		require.NoError(t, err)
		updated, err := s.UpdateLeaveRequest(ctx, r.ID, model.LeaveRequestUpdate{
			Status:          model.StatusRejected,
			RejectionReason: ptr("insufficient notice"),
		})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(r.UpdatedAt))
		assert.Equal(t, "insufficient notice", updated.RejectionReason)
	})

	t.Run("update missing leaves state unchanged", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypeSick))
		require.NoError(t, err)
		before, err := s.GetAllLeaveRequests(ctx)
		require.NoError(t, err)

		_, err = s.UpdateLeaveRequest(ctx, "missing", model.LeaveRequestUpdate{Status: model.StatusApproved})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		after, err := s.GetAllLeaveRequests(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, r.ID, after[0].ID)
	})

	t.Run("expected status precondition", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypeSick))
		require.NoError(t, err)

		pending := model.StatusPending
		_, err = s.UpdateLeaveRequest(ctx, r.ID, model.LeaveRequestUpdate{
			Status:         model.StatusApproved,
			ApprovedBy:     ptr("Sarah Wilson"),
			ExpectedStatus: &pending,
		})
		require.NoError(t, err)

		_, err = s.UpdateLeaveRequest(ctx, r.ID, model.LeaveRequestUpdate{
			Status:          model.StatusRejected,
			RejectionReason: ptr("changed my mind"),
			ExpectedStatus:  &pending,
		})
		assert.ErrorIs(t, err, storage.ErrConflict)
		var conflict *storage.ConflictError
		if assert.True(t, errors.As(err, &conflict)) {
			assert.Equal(t, model.StatusApproved, conflict.Actual)
		}

		stored, err := s.GetLeaveRequest(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, stored.Status)
		assert.Empty(t, stored.RejectionReason)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t, StepClock(base, time.Second))

		r, err := s.CreateLeaveRequest(ctx, sampleLeave("emp1", model.LeaveTypePersonal))
		require.NoError(t, err)

		ok, err := s.DeleteLeaveRequest(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = s.GetLeaveRequest(ctx, r.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		ok, err = s.DeleteLeaveRequest(ctx, r.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
