package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	HeaderUserID     = "User-Id"
	HeaderEmail      = "X-User-Email"
	HeaderName       = "X-User-Name"
	HeaderDepartment = "X-User-Department"
	HeaderGroups     = "X-User-Groups"
)

// HeaderProvider trusts the User-Id header set by the browser client. Profile
// headers become claims; the email is never treated as verified.
type HeaderProvider struct{}

func (HeaderProvider) Identify(r *http.Request) (Identity, error) {
	subject := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if subject == "" {
		return Identity{}, ErrNoIdentity
	}

	id := newIdentity(subject)
	id.addClaim(ClaimEmail, strings.TrimSpace(r.Header.Get(HeaderEmail)))
	id.addClaim(ClaimName, strings.TrimSpace(r.Header.Get(HeaderName)))
	id.addClaim(ClaimDepartment, strings.TrimSpace(r.Header.Get(HeaderDepartment)))
	for _, g := range strings.Split(r.Header.Get(HeaderGroups), ",") {
		id.addClaim(ClaimGroups, strings.TrimSpace(g))
	}
	return id, nil
}

// JWTProvider verifies HMAC-signed bearer tokens.
type JWTProvider struct {
	secret []byte
	issuer string
}

func NewJWTProvider(secret, issuer string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer}
}

func (p *JWTProvider) Identify(r *http.Request) (Identity, error) {
	tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || strings.TrimSpace(tokenString) == "" {
		return Identity{}, ErrNoIdentity
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	subject, _ := claims.GetSubject()
	if subject == "" {
		return Identity{}, fmt.Errorf("%w: missing sub claim", ErrInvalidCredentials)
	}

	id := newIdentity(subject)
	email := stringClaim(claims, "email")
	id.addClaim(ClaimEmail, email)
	if verified, _ := claims["email_verified"].(bool); verified {
		id.VerifiedEmail = email
	}
	id.addClaim(ClaimName, stringClaim(claims, "name"))
	id.addClaim(ClaimDepartment, stringClaim(claims, "department"))
	id.addClaim(ClaimEmployeeID, stringClaim(claims, "employee_id"))
	id.addClaim(ClaimGroups, listClaim(claims, "groups")...)
	return id, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return strings.TrimSpace(s)
}

func listClaim(claims jwt.MapClaims, name string) []string {
	switch v := claims[name].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ChainProvider asks each provider in turn. The first one that finds
// credentials decides, including when it rejects them.
type ChainProvider []Provider

func (c ChainProvider) Identify(r *http.Request) (Identity, error) {
	for _, p := range c {
		id, err := p.Identify(r)
		if errors.Is(err, ErrNoIdentity) {
			continue
		}
		return id, err
	}
	return Identity{}, ErrNoIdentity
}
