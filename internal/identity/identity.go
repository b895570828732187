// Package identity resolves who is calling and which role a first-time caller
// is provisioned with.
package identity

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrNoIdentity means the request carries no credentials a provider
	// understands.
	ErrNoIdentity = errors.New("identity: no caller identity")
	// ErrInvalidCredentials means credentials were present but rejected.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// Claim names shared by every provider.
const (
	ClaimEmail      = "email"
	ClaimName       = "name"
	ClaimDepartment = "department"
	ClaimGroups     = "groups"
	ClaimEmployeeID = "employee_id"
)

type Identity struct {
	Subject string
	// VerifiedEmail is only set when the issuer vouches for the address.
	VerifiedEmail string
	Claims        map[string][]string
}

// Claim returns the first value of a claim, or "".
func (i Identity) Claim(name string) string {
	if vs := i.Claims[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (i Identity) addClaim(name string, values ...string) {
	for _, v := range values {
		if v != "" {
			i.Claims[name] = append(i.Claims[name], v)
		}
	}
}

func newIdentity(subject string) Identity {
	return Identity{Subject: subject, Claims: map[string][]string{}}
}

type Provider interface {
	Identify(r *http.Request) (Identity, error)
}

type ctxKey struct{}

func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.Subject != ""
}
