package bundler

import (
	"fmt"
	"strings"

	oerrors "github.com/pwakit/buildpack/internal/errors"
)

// UnsupportedModeError is returned when a request names an unknown mode.
type UnsupportedModeError struct {
	Mode string
}

// Error implements the error interface.
func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported build mode %q (valid modes: %s)",
		e.Mode, strings.Join(ValidModes(), ", "))
}

// Unwrap classifies the error as a validation failure.
func (e *UnsupportedModeError) Unwrap() error {
	return oerrors.ErrValidation
}
