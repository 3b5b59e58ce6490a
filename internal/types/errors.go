package types

import "errors"

// Error kinds surfaced by fetching and extraction. Callers match them with errors.Is.
var (
	// ErrNotFound reports a locator, reference or local path that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrAuthentication reports a missing or rejected credential.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNetwork reports a transport failure while fetching.
	ErrNetwork = errors.New("network failure")
	// ErrPermissionDenied reports an entry that could not be read during a walk. It is never fatal.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidPattern reports a malformed exclude or ignore pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
)
