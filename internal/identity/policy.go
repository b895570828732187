package identity

import (
	"fmt"

	"go-leave/internal/model"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// RoleRule grants Role to identities whose Claim carries Value.
type RoleRule struct {
	Claim string
	Value string
	Role  model.Role
}

// RolePolicy maps identity claims onto roles through an explicit table.
// Each rule becomes a casbin grouping "claim:value" -> role.
type RolePolicy struct {
	enforcer *casbin.Enforcer
	claims   []string
}

func NewRolePolicy(rules []RoleRule) (*RolePolicy, error) {
	m, err := casbinmodel.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("load role model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create role enforcer: %w", err)
	}

	p := &RolePolicy{enforcer: enforcer}
	seen := map[string]bool{}
	for _, rule := range rules {
		if !rule.Role.Valid() {
			return nil, fmt.Errorf("role rule %s=%s: unknown role %q", rule.Claim, rule.Value, rule.Role)
		}
		if _, err := enforcer.AddGroupingPolicy(subject(rule.Claim, rule.Value), string(rule.Role)); err != nil {
			return nil, fmt.Errorf("add role rule: %w", err)
		}
		if !seen[rule.Claim] {
			seen[rule.Claim] = true
			p.claims = append(p.claims, rule.Claim)
		}
	}
	return p, nil
}

// Resolve returns the most privileged role any claim of id maps to, or
// employee when no rule matches.
func (p *RolePolicy) Resolve(id Identity) model.Role {
	for _, claim := range p.claims {
		for _, value := range id.Claims[claim] {
			ok, err := p.enforcer.HasRoleForUser(subject(claim, value), string(model.RoleHR))
			if err == nil && ok {
				return model.RoleHR
			}
		}
	}
	return model.RoleEmployee
}

func subject(claim, value string) string {
	return claim + ":" + value
}
