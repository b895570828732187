package events

import (
	"time"

	"go-leave/internal/model"
)

const LeaveRequestTopic = "hr.leave.request.lifecycle.v1"

const (
	LeaveRequestSubmitted = "leave_request.submitted"
	LeaveRequestApproved  = "leave_request.approved"
	LeaveRequestRejected  = "leave_request.rejected"
	LeaveRequestReopened  = "leave_request.reopened"
	LeaveRequestDeleted   = "leave_request.deleted"
)

type LeaveRequestEvent struct {
	EventType       string    `json:"event_type"`
	LeaveRequestID  string    `json:"leave_request_id"`
	UserID          string    `json:"user_id"`
	EmployeeName    string    `json:"employee_name"`
	Department      string    `json:"department"`
	LeaveType       string    `json:"leave_type"`
	FromDate        string    `json:"from_date"`
	ToDate          string    `json:"to_date"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	ApprovedBy      string    `json:"approved_by,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// EventTypeForStatus names the event emitted when a request moves to status.
func EventTypeForStatus(status model.Status) string {
	switch status {
	case model.StatusApproved:
		return LeaveRequestApproved
	case model.StatusRejected:
		return LeaveRequestRejected
	default:
		return LeaveRequestReopened
	}
}

func NewLeaveRequestEvent(eventType string, r model.LeaveRequest, occurredAt time.Time) LeaveRequestEvent {
	return LeaveRequestEvent{
		EventType:       eventType,
		LeaveRequestID:  r.ID,
		UserID:          r.UserID,
		EmployeeName:    r.EmployeeName,
		Department:      r.Department,
		LeaveType:       string(r.LeaveType),
		FromDate:        r.FromDate.String(),
		ToDate:          r.ToDate.String(),
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		ApprovedBy:      r.ApprovedBy,
		OccurredAt:      occurredAt.UTC(),
	}
}

// Decision reports whether the event closes a request.
func (e LeaveRequestEvent) Decision() bool {
	return e.EventType == LeaveRequestApproved || e.EventType == LeaveRequestRejected
}
