package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid user input: an unknown build mode,
	// a malformed flag, or an unreadable project configuration.
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates the package registry or a tarball host
	// could not be reached.
	ErrConnectivity = errors.New("connectivity error")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a template, manifest, or file was not found.
	ErrNotFound = errors.New("not found")
)
