package identity

import (
	"fmt"

	"go-leave/internal/model"
)

const (
	fallbackName       = "User"
	fallbackDepartment = "General"
	hrDepartment       = "Human Resources"
)

// Provisioner builds the user record created on a caller's first visit.
type Provisioner struct {
	policy *RolePolicy
}

func NewProvisioner(policy *RolePolicy) *Provisioner {
	return &Provisioner{policy: policy}
}

func (p *Provisioner) Profile(id Identity) model.InsertUser {
	role := model.RoleEmployee
	if p.policy != nil {
		role = p.policy.Resolve(id)
	}

	email := id.VerifiedEmail
	if email == "" {
		email = fmt.Sprintf("user-%s@company.com", id.Subject)
	}

	name := id.Claim(ClaimName)
	if name == "" {
		name = fallbackName
	}

	department := id.Claim(ClaimDepartment)
	if department == "" {
		department = fallbackDepartment
		if role == model.RoleHR {
			department = hrDepartment
		}
	}

	return model.InsertUser{
		ID:         id.Subject,
		Email:      email,
		Name:       name,
		Role:       role,
		Department: department,
		EmployeeID: id.Claim(ClaimEmployeeID),
	}
}
