package postgres

import (
	"time"

	"go-leave/internal/model"
)

type userRecord struct {
	ID         string    `gorm:"column:id;type:text;primaryKey"`
	Email      string    `gorm:"column:email;type:text;not null;index:idx_users_email"`
	Name       string    `gorm:"column:name;type:text;not null"`
	Role       string    `gorm:"column:role;type:varchar(20);not null"`
	Department string    `gorm:"column:department;type:text;not null"`
	EmployeeID *string   `gorm:"column:employee_id;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (userRecord) TableName() string { return "users" }

type leaveRequestRecord struct {
	ID              string     `gorm:"column:id;type:text;primaryKey"`
	UserID          string     `gorm:"column:user_id;type:text;not null;index:idx_leave_requests_user_submitted"`
	EmployeeID      string     `gorm:"column:employee_id;type:text;not null"`
	EmployeeName    string     `gorm:"column:employee_name;type:text;not null"`
	Department      string     `gorm:"column:department;type:text;not null"`
	LeaveType       string     `gorm:"column:leave_type;type:varchar(20);not null"`
	FromDate        model.Date `gorm:"column:from_date;type:date"`
	ToDate          model.Date `gorm:"column:to_date;type:date"`
	Reason          string     `gorm:"column:reason;type:text;not null"`
	Status          string     `gorm:"column:status;type:varchar(20);not null"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`
	ApprovedBy      *string    `gorm:"column:approved_by;type:text"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at;not null;index:idx_leave_requests_submitted_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (leaveRequestRecord) TableName() string { return "leave_requests" }

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserRecord(u model.User) userRecord {
	return userRecord{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Department: u.Department,
		EmployeeID: nullable(u.EmployeeID),
		CreatedAt:  u.CreatedAt,
	}
}

func (r userRecord) toModel() model.User {
	return model.User{
		ID:         r.ID,
		Email:      r.Email,
		Name:       r.Name,
		Role:       model.Role(r.Role),
		Department: r.Department,
		EmployeeID: deref(r.EmployeeID),
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func toLeaveRequestRecord(l model.LeaveRequest) leaveRequestRecord {
	return leaveRequestRecord{
		ID:              l.ID,
		UserID:          l.UserID,
		EmployeeID:      l.EmployeeID,
		EmployeeName:    l.EmployeeName,
		Department:      l.Department,
		LeaveType:       string(l.LeaveType),
		FromDate:        l.FromDate,
		ToDate:          l.ToDate,
		Reason:          l.Reason,
		Status:          string(l.Status),
		RejectionReason: nullable(l.RejectionReason),
		ApprovedBy:      nullable(l.ApprovedBy),
		SubmittedAt:     l.SubmittedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func (r leaveRequestRecord) toModel() model.LeaveRequest {
	return model.LeaveRequest{
		ID:              r.ID,
		UserID:          r.UserID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Department:      r.Department,
		LeaveType:       model.LeaveType(r.LeaveType),
		FromDate:        r.FromDate,
		ToDate:          r.ToDate,
		Reason:          r.Reason,
		Status:          model.Status(r.Status),
		RejectionReason: deref(r.RejectionReason),
		ApprovedBy:      deref(r.ApprovedBy),
		SubmittedAt:     r.SubmittedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func toLeaveRequests(records []leaveRequestRecord) []model.LeaveRequest {
	out := make([]model.LeaveRequest, len(records))
	for i, r := range records {
		out[i] = r.toModel()
	}
	return out
}
