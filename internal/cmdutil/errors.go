package cmdutil

import (
	"errors"
	"os"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
)

// Fail reports err to the user and wraps it with the matching exit code.
// The returned error is marked as printed.
func Fail(msg string, err error) error {
	var exitErr *cmdtypes.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		os.Stderr.WriteString(detail.Error())
	} else {
		output.Error(msg, "error", err)
	}

	return &cmdtypes.ExitError{
		Code:    oerrors.ExitCodeFromError(err),
		Err:     err,
		Printed: true,
	}
}
