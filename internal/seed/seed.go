// Package seed loads the sample organisation used by demos and local runs.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go-leave/internal/model"
	"go-leave/internal/storage"

	"go.uber.org/zap"
)

type sampleRequest struct {
	in       model.InsertLeaveRequest
	decision *model.LeaveRequestUpdate
}

var users = []model.InsertUser{
	{ID: "emp1", Email: "john.doe@company.com", Name: "John Doe", Role: model.RoleEmployee, Department: "Engineering", EmployeeID: "EMP001"},
	{ID: "emp2", Email: "alice.smith@company.com", Name: "Alice Smith", Role: model.RoleEmployee, Department: "Marketing", EmployeeID: "EMP002"},
	{ID: "hr1", Email: "sarah.wilson@company.com", Name: "Sarah Wilson", Role: model.RoleHR, Department: "Human Resources"},
}

func approvedBy(name string) *model.LeaveRequestUpdate {
	return &model.LeaveRequestUpdate{Status: model.StatusApproved, ApprovedBy: &name}
}

// requests are created oldest first so listings come back newest first.
var requests = []sampleRequest{
	{
		in: model.InsertLeaveRequest{
			UserID: "emp1", EmployeeID: "EMP001", EmployeeName: "John Doe", Department: "Engineering",
			LeaveType: model.LeaveTypeSick, FromDate: model.NewDate(2024, 12, 10), ToDate: model.NewDate(2024, 12, 12),
			Reason: "Fever and flu symptoms",
		},
		decision: approvedBy("Sarah Wilson"),
	},
	{
		in: model.InsertLeaveRequest{
			UserID: "emp1", EmployeeID: "EMP001", EmployeeName: "John Doe", Department: "Engineering",
			LeaveType: model.LeaveTypeAnnual, FromDate: model.NewDate(2024, 12, 25), ToDate: model.NewDate(2024, 12, 29),
			Reason: "Family vacation during holidays",
		},
	},
	{
		in: model.InsertLeaveRequest{
			UserID: "emp2", EmployeeID: "EMP002", EmployeeName: "Alice Smith", Department: "Marketing",
			LeaveType: model.LeaveTypePersonal, FromDate: model.NewDate(2024, 12, 18), ToDate: model.NewDate(2024, 12, 20),
			Reason: "Personal matters",
		},
	},
}

type Result struct {
	UsersCreated    int `json:"usersCreated"`
	RequestsCreated int `json:"requestsCreated"`
}

// Run seeds through the storage contract. Existing users are kept and
// requests are only added for users that have none, so repeated runs are
// harmless.
func Run(ctx context.Context, store storage.Storage, logger *zap.Logger) (Result, error) {
	log := logger.Named("seed")
	var res Result

	for _, u := range users {
		_, err := store.GetUser(ctx, u.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return res, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		if _, err := store.CreateUser(ctx, u); err != nil && !errors.Is(err, storage.ErrConflict) {
			return res, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		res.UsersCreated++
	}

	seeded := map[string]bool{}
	for _, r := range requests {
		if _, checked := seeded[r.in.UserID]; !checked {
			existing, err := store.GetUserLeaveRequests(ctx, r.in.UserID)
			if err != nil {
				return res, fmt.Errorf("seed requests for %s: %w", r.in.UserID, err)
			}
			seeded[r.in.UserID] = len(existing) > 0
		}
		if seeded[r.in.UserID] {
			continue
		}

		created, err := store.CreateLeaveRequest(ctx, r.in)
		if err != nil {
			return res, fmt.Errorf("seed request for %s: %w", r.in.UserID, err)
		}
		if r.decision != nil {
			if _, err := store.UpdateLeaveRequest(ctx, created.ID, *r.decision); err != nil {
				return res, fmt.Errorf("seed decision for %s: %w", created.ID, err)
			}
		}
		res.RequestsCreated++
	}

	log.Info("seed completed", zap.Int("users_created", res.UsersCreated), zap.Int("requests_created", res.RequestsCreated))
	return res, nil
}
