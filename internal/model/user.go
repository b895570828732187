package model

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
)

var Roles = []Role{RoleEmployee, RoleHR}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleHR
}

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	EmployeeID string    `json:"employeeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InsertUser is the creation value for a User. ID is optional: when set (for
// example an identity-provider subject) the backend keeps it instead of
// generating one.
type InsertUser struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	EmployeeID string `json:"employeeId,omitempty"`
}
