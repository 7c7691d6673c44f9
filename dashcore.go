// Package dashcore resolves what a caller may do with dashboard
// resources and which dashboard definitions exist for a context.
//
// Access breadth is expressed as a scope mode (none, own, ldd, all)
// resolved by probing an external authorization provider over a fixed
// lattice of action keys. Share management enforces the owner-only ACL
// rules on top of the resolved mode, and the catalog resolver merges
// registry-sourced static dashboards with dynamically stored ones.
//
//	eng, err := dashcore.NewEngine(
//	    dashcore.WithStore(memStore),
//	    dashcore.WithAuthorizer(provider),
//	    dashcore.WithOrgResolver(orgResolver),
//	)
//	mode, err := eng.ResolveScopeMode(ctx, dashcore.VerbWrite, dashcore.EntityDashboards)
package dashcore

import "strings"

// Verb is the operation class being authorized.
type Verb string

const (
	VerbRead   Verb = "read"
	VerbWrite  Verb = "write"
	VerbDelete Verb = "delete"
)

// ParseVerb validates a raw verb string.
func ParseVerb(s string) (Verb, bool) {
	switch v := Verb(strings.ToLower(strings.TrimSpace(s))); v {
	case VerbRead, VerbWrite, VerbDelete:
		return v, true
	}
	return "", false
}

// Entity names a sub-resource class with its own scope overrides.
type Entity string

// EntityDashboards is the only entity class today. An empty Entity
// resolves against the pack-wide default keys only.
const EntityDashboards Entity = "dashboards"

// ScopeMode is the breadth of access a caller has for a verb, ordered
// from most to least restrictive. It is computed per request, never
// persisted.
type ScopeMode string

const (
	// ModeNone grants no access.
	ModeNone ScopeMode = "none"

	// ModeOwn restricts access to resources the caller owns.
	ModeOwn ScopeMode = "own"

	// ModeLDD covers resources within the caller's organizational
	// units (location, division, department).
	ModeLDD ScopeMode = "ldd"

	// ModeAll grants access to every resource.
	ModeAll ScopeMode = "all"
)

// scopeModes is the probe order. Most restrictive first: when several
// modes are granted, the most conservative one wins.
var scopeModes = [...]ScopeMode{ModeNone, ModeOwn, ModeLDD, ModeAll}

// Identity is the acting subject of a request.
type Identity struct {
	SubjectID string   `json:"subject_id"`
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Groups    []string `json:"groups,omitempty"`
}

// DisplayName returns the best human-readable name for audit fields.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return i.SubjectID
}

// HasRole reports whether the identity carries the role,
// case-insensitively.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Decision is the access-control outcome.
type Decision string

const (
	// DecisionAllow means the request is permitted.
	DecisionAllow Decision = "allow"

	// DecisionDenyScopeNone means the resolved scope mode is none.
	DecisionDenyScopeNone Decision = "deny_scope_none"

	// DecisionDenyNotOwner means an owner-only operation was attempted
	// by a non-owner.
	DecisionDenyNotOwner Decision = "deny_not_owner"

	// DecisionDenyShareCategory means the share-category grant is absent.
	DecisionDenyShareCategory Decision = "deny_share_category"

	// DecisionDenyShareOutside means the target is outside the caller's
	// org scope and share_outside is not granted.
	DecisionDenyShareOutside Decision = "deny_share_outside"

	// DecisionDenySelfShare means a caller tried to share with themself.
	DecisionDenySelfShare Decision = "deny_self_share"

	// DecisionDenyUpstream means the authorization provider was
	// unreachable and the request failed closed.
	DecisionDenyUpstream Decision = "deny_upstream"

	// DecisionDenyDefault means no rule permitted the request.
	DecisionDenyDefault Decision = "deny_default"
)

// AccessResult is the outcome of an access-control evaluation.
type AccessResult struct {
	Allowed    bool      `json:"allowed"`
	Decision   Decision  `json:"decision"`
	Mode       ScopeMode `json:"mode,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	EvalTimeNs int64     `json:"eval_time_ns"`
}
