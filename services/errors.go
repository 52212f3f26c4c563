package services

import "errors"

// Sentinel errors for the orchestrator's caller. Only ErrRateLimited and
// ErrSessionNotFound ever reach the HTTP layer; every other failure inside
// the pipeline degrades to a fallback answer instead of propagating.
var (
	// ErrRateLimited means the session exceeded its admission window.
	ErrRateLimited = errors.New("session is rate limited")

	// ErrSessionNotFound means a history-dependent operation was invoked for
	// a session that was never initialized.
	ErrSessionNotFound = errors.New("session not found")

	// ErrGenerationFailed wraps any failure of the external generation
	// backend: network error, non-2xx status, timeout, or an unusable reply.
	ErrGenerationFailed = errors.New("generation backend failed")
)
