package core

import "errors"

// Sentinel errors returned by the services. Handlers map these to HTTP
// statuses with errors.Is.
var (
	// ErrProfileExists is returned when Create is called for a UID that is
	// already bound to a profile.
	ErrProfileExists = errors.New("profile already exists")

	// ErrProfileNotFound is the tagged absence for a UID with no profile
	// yet; callers treat it as "no profile", not as a store failure.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNotAuthenticated is returned when a mutation is attempted without
	// an active session bound to the target UID.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStoreUnavailable is returned when the document store call itself
	// failed or timed out.
	ErrStoreUnavailable = errors.New("profile store unavailable")

	// ErrUpstreamAuth is returned when the identity provider rejected a
	// credential operation; the underlying message is propagated, not
	// reinterpreted.
	ErrUpstreamAuth = errors.New("identity provider rejected the request")

	// ErrInvalidUsageKind is returned for a usage kind other than
	// speedExercise or dictation.
	ErrInvalidUsageKind = errors.New("unknown usage kind")

	// ErrInvalidUsageAmount is returned when the usage amount is below 1.
	ErrInvalidUsageAmount = errors.New("usage amount must be at least 1")

	// ErrUnknownModule is returned when a progress update names a module
	// that is not in the curriculum catalog.
	ErrUnknownModule = errors.New("unknown curriculum module")
)
