// Package schema validates inbound payloads and converts them into model
// creation and update values.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"go-leave/internal/model"
	"go-leave/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a payload.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) AppError() *apperror.AppError {
	return apperror.Validation("Invalid "+e.Entity, e.Fields)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(apperror.TagName)
	return v
}

type InsertUserPayload struct {
	ID         string `json:"id,omitempty" validate:"omitempty,max=128"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=employee hr"`
	Department string `json:"department" validate:"required"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// InsertLeaveRequestPayload requires employeeId to be present but allows it
// to be empty; callers without an employee number submit "".
type InsertLeaveRequestPayload struct {
	UserID       string  `json:"userId" validate:"required"`
	EmployeeID   *string `json:"employeeId" validate:"required"`
	EmployeeName string  `json:"employeeName" validate:"required"`
	Department   string  `json:"department" validate:"required"`
	LeaveType    string  `json:"leaveType" validate:"required,oneof=annual sick personal emergency"`
	FromDate     string  `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate       string  `json:"toDate" validate:"required,datetime=2006-01-02"`
	Reason       string  `json:"reason" validate:"required"`
}

type UpdateLeaveRequestPayload struct {
	Status          string  `json:"status" validate:"required,oneof=pending approved rejected"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ExpectedStatus  *string `json:"expectedStatus,omitempty" validate:"omitempty,oneof=pending approved rejected"`
}

func ValidateInsertUser(p InsertUserPayload) (model.InsertUser, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.Name = strings.TrimSpace(p.Name)
	p.Department = strings.TrimSpace(p.Department)

	if err := check("user", p); err != nil {
		return model.InsertUser{}, err
	}

	return model.InsertUser{
		ID:         p.ID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       model.Role(p.Role),
		Department: p.Department,
		EmployeeID: strings.TrimSpace(p.EmployeeID),
	}, nil
}

// ValidateInsertLeaveRequest does not compare fromDate and toDate; an
// inverted range is accepted.
func ValidateInsertLeaveRequest(p InsertLeaveRequestPayload) (model.InsertLeaveRequest, error) {
	p.Reason = strings.TrimSpace(p.Reason)

	if err := check("leave request", p); err != nil {
		return model.InsertLeaveRequest{}, err
	}

	from, err := model.ParseDate(p.FromDate)
	if err != nil {
		return model.InsertLeaveRequest{}, dateError("fromDate", err)
	}
	to, err := model.ParseDate(p.ToDate)
	if err != nil {
		return model.InsertLeaveRequest{}, dateError("toDate", err)
	}

	return model.InsertLeaveRequest{
		UserID:       p.UserID,
		EmployeeID:   strings.TrimSpace(*p.EmployeeID),
		EmployeeName: p.EmployeeName,
		Department:   p.Department,
		LeaveType:    model.LeaveType(p.LeaveType),
		FromDate:     from,
		ToDate:       to,
		Reason:       p.Reason,
	}, nil
}

// ValidateUpdateLeaveRequest enforces that a rejection carries a reason.
func ValidateUpdateLeaveRequest(p UpdateLeaveRequestPayload) (model.LeaveRequestUpdate, error) {
	if err := check("leave request update", p); err != nil {
		return model.LeaveRequestUpdate{}, err
	}

	upd := model.LeaveRequestUpdate{
		Status:     model.Status(p.Status),
		ApprovedBy: trimmed(p.ApprovedBy),
	}
	if p.RejectionReason != nil {
		reason := strings.TrimSpace(*p.RejectionReason)
		upd.RejectionReason = &reason
	}
	if p.ExpectedStatus != nil {
		expected := model.Status(*p.ExpectedStatus)
		upd.ExpectedStatus = &expected
	}

	if upd.Status == model.StatusRejected && (upd.RejectionReason == nil || *upd.RejectionReason == "") {
		return model.LeaveRequestUpdate{}, &ValidationError{
			Entity: "leave request update",
			Fields: []FieldError{{
				Field:   "rejectionReason",
				Rule:    "required_if",
				Message: "rejectionReason is required when status is rejected",
			}},
		}
	}
	return upd, nil
}

func check(entity string, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return &ValidationError{Entity: entity, Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

func dateError(field string, err error) error {
	return &ValidationError{
		Entity: "leave request",
		Fields: []FieldError{{Field: field, Rule: "datetime", Message: err.Error()}},
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
