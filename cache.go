package dashcore

import "context"

// Cache provides caching for resolved scope modes.
type Cache interface {
	// Get returns a cached scope mode, if available.
	Get(ctx context.Context, subjectID string, verb Verb, entity Entity) (ScopeMode, bool)

	// Set stores a resolved scope mode.
	Set(ctx context.Context, subjectID string, verb Verb, entity Entity, mode ScopeMode)

	// InvalidateSubject removes all cached modes for a subject.
	InvalidateSubject(ctx context.Context, subjectID string)
}
