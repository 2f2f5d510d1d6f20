package auth

import (
	"context"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// Roles understood by Profile.Allows.
const (
	RoleAdmin    = "admin"
	RoleMarket   = "market"
	RoleDistrict = "district"
	RoleStore    = "store"
)

const unassigned = "Unassigned"

// Profile is the dashboard identity attached to a request.
type Profile struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Scope string `json:"scope,omitempty"`
}

// Anonymous is used when authentication is disabled.
var Anonymous = Profile{Name: "anonymous", Role: RoleAdmin}

// IsAdmin reports whether the profile sees every location.
func (p Profile) IsAdmin() bool {
	return p.Role == "" || p.Role == RoleAdmin
}

// scopes splits Scope on commas into lower-cased, non-empty items.
func (p Profile) scopes() []string {
	var out []string
	for _, s := range strings.Split(p.Scope, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Allows reports whether the profile may see r.
//
// Store users match when any scope item appears in the location name.
// Market and district users match the report's market or district exactly
// (case-insensitive); a location outside the metadata sheet matches neither.
func (p Profile) Allows(r *types.StoreReport) bool {
	if p.IsAdmin() {
		return true
	}
	scopes := p.scopes()

	switch p.Role {
	case RoleStore:
		name := strings.ToLower(strings.TrimSpace(r.LocationName))
		for _, s := range scopes {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	case RoleMarket:
		return r.Market != unassigned && contains(scopes, strings.ToLower(strings.TrimSpace(r.Market)))
	case RoleDistrict:
		return r.District != unassigned && contains(scopes, strings.ToLower(strings.TrimSpace(r.District)))
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type profileKey struct{}

// WithProfile returns a copy of ctx carrying p.
func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// FromContext returns the profile attached by the middleware. Requests that
// never passed through it are treated as Anonymous.
func FromContext(ctx context.Context) Profile {
	if p, ok := ctx.Value(profileKey{}).(Profile); ok {
		return p
	}
	return Anonymous
}
