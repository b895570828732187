package schema_test

import (
	"errors"
	"net/http"
	"testing"

	"go-leave/internal/model"
	"go-leave/internal/schema"
	"go-leave/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func validLeave() schema.InsertLeaveRequestPayload {
	return schema.InsertLeaveRequestPayload{
		UserID:       "emp1",
		EmployeeID:   ptr("EMP001"),
		EmployeeName: "John Doe",
		Department:   "Engineering",
		LeaveType:    "sick",
		FromDate:     "2024-12-10",
		ToDate:       "2024-12-12",
		Reason:       "Fever and flu symptoms",
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestValidateInsertUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in, err := schema.ValidateInsertUser(schema.InsertUserPayload{
			Email:      " sarah.wilson@company.com ",
			Name:       "Sarah Wilson",
			Role:       "hr",
			Department: "Human Resources",
		})
		require.NoError(t, err)
		assert.Equal(t, "sarah.wilson@company.com", in.Email)
		assert.Equal(t, model.RoleHR, in.Role)
	})

	tests := []struct {
		name    string
		payload schema.InsertUserPayload
		fields  []string
	}{
		{
			name:    "bad email",
			payload: schema.InsertUserPayload{Email: "not-an-email", Name: "X", Role: "employee", Department: "General"},
			fields:  []string{"email"},
		},
		{
			name:    "unknown role",
			payload: schema.InsertUserPayload{Email: "x@company.com", Name: "X", Role: "admin", Department: "General"},
			fields:  []string{"role"},
		},
		{
			name:    "blank name and department",
			payload: schema.InsertUserPayload{Email: "x@company.com", Name: "  ", Role: "employee"},
			fields:  []string{"name", "department"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.ValidateInsertUser(tt.payload)
			assert.Equal(t, tt.fields, fieldNames(t, err))
		})
	}
}

func TestValidateInsertLeaveRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in, err := schema.ValidateInsertLeaveRequest(validLeave())
		require.NoError(t, err)
		assert.Equal(t, model.LeaveTypeSick, in.LeaveType)
		assert.Equal(t, "2024-12-10", in.FromDate.String())
		assert.Equal(t, "2024-12-12", in.ToDate.String())
	})

	t.Run("empty employee id is accepted", func(t *testing.T) {
		p := validLeave()
		p.EmployeeID = ptr("")
		in, err := schema.ValidateInsertLeaveRequest(p)
		require.NoError(t, err)
		assert.Empty(t, in.EmployeeID)
	})

	t.Run("inverted range is accepted", func(t *testing.T) {
		p := validLeave()
		p.FromDate, p.ToDate = "2024-12-20", "2024-12-01"
		_, err := schema.ValidateInsertLeaveRequest(p)
		assert.NoError(t, err)
	})

	tests := []struct {
		name   string
		mutate func(p *schema.InsertLeaveRequestPayload)
		fields []string
	}{
		{name: "vacation is not a leave type", mutate: func(p *schema.InsertLeaveRequestPayload) { p.LeaveType = "vacation" }, fields: []string{"leaveType"}},
		{name: "blank reason", mutate: func(p *schema.InsertLeaveRequestPayload) { p.Reason = "   " }, fields: []string{"reason"}},
		{name: "bad date", mutate: func(p *schema.InsertLeaveRequestPayload) { p.FromDate = "12/10/2024" }, fields: []string{"fromDate"}},
		{name: "impossible date", mutate: func(p *schema.InsertLeaveRequestPayload) { p.ToDate = "2024-02-30" }, fields: []string{"toDate"}},
		{name: "missing employee id", mutate: func(p *schema.InsertLeaveRequestPayload) { p.EmployeeID = nil }, fields: []string{"employeeId"}},
		{name: "missing snapshot", mutate: func(p *schema.InsertLeaveRequestPayload) { p.EmployeeName = ""; p.UserID = "" }, fields: []string{"userId", "employeeName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validLeave()
			tt.mutate(&p)
			_, err := schema.ValidateInsertLeaveRequest(p)
			assert.Equal(t, tt.fields, fieldNames(t, err))
		})
	}
}

func TestValidateUpdateLeaveRequest(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		upd, err := schema.ValidateUpdateLeaveRequest(schema.UpdateLeaveRequestPayload{
			Status:     "approved",
			ApprovedBy: ptr("Sarah Wilson"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, upd.Status)
		assert.Equal(t, "Sarah Wilson", *upd.ApprovedBy)
		assert.Nil(t, upd.RejectionReason)
		assert.Nil(t, upd.ExpectedStatus)
	})

	t.Run("reject with reason and expected status", func(t *testing.T) {
		upd, err := schema.ValidateUpdateLeaveRequest(schema.UpdateLeaveRequestPayload{
			Status:          "rejected",
			RejectionReason: ptr("Team at minimum staffing"),
			ExpectedStatus:  ptr("pending"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Team at minimum staffing", *upd.RejectionReason)
		assert.Equal(t, model.StatusPending, *upd.ExpectedStatus)
	})

	t.Run("reject without reason", func(t *testing.T) {
		for _, reason := range []*string{nil, ptr(""), ptr("  ")} {
			_, err := schema.ValidateUpdateLeaveRequest(schema.UpdateLeaveRequestPayload{
				Status:          "rejected",
				RejectionReason: reason,
			})
			assert.Equal(t, []string{"rejectionReason"}, fieldNames(t, err))
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := schema.ValidateUpdateLeaveRequest(schema.UpdateLeaveRequestPayload{Status: "cancelled"})
		assert.Equal(t, []string{"status"}, fieldNames(t, err))
	})
}

func TestValidationError_MapsTo400(t *testing.T) {
	_, err := schema.ValidateInsertLeaveRequest(schema.InsertLeaveRequestPayload{})
	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, apperror.CodeValidation, httpErr.Code)

	details, ok := httpErr.Details.([]schema.FieldError)
	require.True(t, ok)
	assert.NotEmpty(t, details)
}
