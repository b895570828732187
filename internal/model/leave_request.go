package model

import "time"

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeEmergency LeaveType = "emergency"
)

var LeaveTypes = []LeaveType{LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal, LeaveTypeEmergency}

func (t LeaveType) Valid() bool {
	for _, v := range LeaveTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether from -> to is part of the lifecycle:
// pending may move to approved or rejected, and nothing leaves a terminal state.
func CanTransition(from, to Status) bool {
	return from == StatusPending && to.Terminal()
}

// LeaveRequest holds a snapshot of the employee (EmployeeID, EmployeeName,
// Department) taken at submission time. The snapshot is historical and is not
// refreshed when the user record changes.
type LeaveRequest struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName"`
	Department      string    `json:"department"`
	LeaveType       LeaveType `json:"leaveType"`
	FromDate        Date      `json:"fromDate"`
	ToDate          Date      `json:"toDate"`
	Reason          string    `json:"reason"`
	Status          Status    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	ApprovedBy      string    `json:"approvedBy,omitempty"`
	SubmittedAt     time.Time `json:"submittedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type InsertLeaveRequest struct {
	UserID       string    `json:"userId"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Department   string    `json:"department"`
	LeaveType    LeaveType `json:"leaveType"`
	FromDate     Date      `json:"fromDate"`
	ToDate       Date      `json:"toDate"`
	Reason       string    `json:"reason"`
}

// LeaveRequestUpdate is merged onto an existing request field by field. Nil
// pointers leave the stored value untouched. ExpectedStatus, when set, is a
// precondition on the stored status.
type LeaveRequestUpdate struct {
	Status          Status  `json:"status"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ExpectedStatus  *Status `json:"expectedStatus,omitempty"`
}

// Apply merges u onto r. It does not touch UpdatedAt.
func (u LeaveRequestUpdate) Apply(r LeaveRequest) LeaveRequest {
	if u.Status != "" {
		r.Status = u.Status
	}
	if u.RejectionReason != nil {
		r.RejectionReason = *u.RejectionReason
	}
	if u.ApprovedBy != nil {
		r.ApprovedBy = *u.ApprovedBy
	}
	return r
}

// NextUpdatedAt returns now, bumped past prev so that updatedAt strictly
// increases even when the clock has not advanced.
func NextUpdatedAt(prev, now time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

// NewLeaveRequest builds a pending request from its creation value.
func NewLeaveRequest(id string, in InsertLeaveRequest, now time.Time) LeaveRequest {
	return LeaveRequest{
		ID:           id,
		UserID:       in.UserID,
		EmployeeID:   in.EmployeeID,
		EmployeeName: in.EmployeeName,
		Department:   in.Department,
		LeaveType:    in.LeaveType,
		FromDate:     in.FromDate,
		ToDate:       in.ToDate,
		Reason:       in.Reason,
		Status:       StatusPending,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
}

// NewUser builds a user from its creation value.
func NewUser(id string, in InsertUser, now time.Time) User {
	return User{
		ID:         id,
		Email:      in.Email,
		Name:       in.Name,
		Role:       in.Role,
		Department: in.Department,
		EmployeeID: in.EmployeeID,
		CreatedAt:  now,
	}
}
