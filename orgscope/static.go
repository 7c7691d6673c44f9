package orgscope

import "context"

// Compile-time interface check.
var _ Resolver = (*Static)(nil)

// Static is a fixed-membership Resolver. Intended for tests and
// development.
type Static struct {
	scopes map[string]Scope
	users  map[string]struct{}
}

// NewStatic creates an empty Static resolver.
func NewStatic() *Static {
	return &Static{
		scopes: make(map[string]Scope),
		users:  make(map[string]struct{}),
	}
}

// SetScope fixes the scope resolved for a subject.
func (s *Static) SetScope(subjectID string, scope Scope) {
	s.scopes[subjectID] = scope
}

// AddUserInScope marks a user ID as inside any resolved scope.
func (s *Static) AddUserInScope(userID string) {
	s.users[userID] = struct{}{}
}

// ResolveScope returns the configured scope, or the empty scope.
func (s *Static) ResolveScope(_ context.Context, ident Identity) (Scope, error) {
	return s.scopes[ident.SubjectID], nil
}

// IsUserInScope reports configured user membership.
func (s *Static) IsUserInScope(_ context.Context, userID string, _ Scope) (bool, error) {
	_, ok := s.users[userID]
	return ok, nil
}
