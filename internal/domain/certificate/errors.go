package certificate

import "errors"

// Sentinel errors returned by the certificate services. Every externally
// exposed operation returns either a well-formed result or an error wrapping
// one of these.
var (
	// ErrNotFound means the certificate (or batch job) could not be located
	// after the full key search.
	ErrNotFound = errors.New("certificate not found")

	// ErrBackendUnavailable means a required backend could not be reached.
	// Cache unavailability is swallowed by callers; store unavailability is not.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrValidation means the request was rejected before any side effect.
	ErrValidation = errors.New("invalid certificate request")

	// ErrGenerationFailed means rendering or uploading the certificate failed.
	ErrGenerationFailed = errors.New("certificate generation failed")
)
