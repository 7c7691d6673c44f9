package dashcore

import "errors"

var (
	// ErrAccessDenied is returned when an access-control check fails.
	ErrAccessDenied = errors.New("dashcore: access denied")

	// ErrIdentityRequired is returned when no identity is attached to
	// the request context.
	ErrIdentityRequired = errors.New("dashcore: identity required")

	// ErrDashboardNotFound is returned when a dashboard key does not exist.
	ErrDashboardNotFound = errors.New("dashcore: dashboard not found")

	// ErrShareNotFound is returned when a share tuple does not exist.
	ErrShareNotFound = errors.New("dashcore: share not found")

	// ErrSelfShare is returned when a caller shares a dashboard with themself.
	ErrSelfShare = errors.New("dashcore: cannot share with yourself")

	// ErrInvalidPrincipalType is returned for an unknown share principal type.
	ErrInvalidPrincipalType = errors.New("dashcore: principal type must be user, group, role, location, division, or department")

	// ErrMissingKey is returned when a dashboard key is empty.
	ErrMissingKey = errors.New("dashcore: dashboard key is required")

	// ErrMissingPrincipal is returned when a share principal is incomplete.
	ErrMissingPrincipal = errors.New("dashcore: principal type and principal id are required")

	// ErrInvalidDefinition is returned when a dashboard definition is
	// not an object.
	ErrInvalidDefinition = errors.New("dashcore: definition must be an object")

	// ErrDuplicateKey is returned when a dashboard key already exists.
	ErrDuplicateKey = errors.New("dashcore: dashboard key already exists")

	// ErrStaticKeyConflict is returned when a dynamic dashboard would
	// shadow a static catalog key.
	ErrStaticKeyConflict = errors.New("dashcore: key is reserved by a static dashboard")

	// ErrSystemImmutable is returned when trying to modify or delete a
	// system dashboard.
	ErrSystemImmutable = errors.New("dashcore: system dashboard cannot be modified")

	// ErrUpstreamUnavailable is returned when the authorization provider
	// or org-scope resolver is unreachable and the request failed closed.
	ErrUpstreamUnavailable = errors.New("dashcore: authorization upstream unavailable")
)
