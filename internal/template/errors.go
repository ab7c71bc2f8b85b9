package template

import (
	"errors"
	"fmt"
)

// Acquisition stages a ResolutionError can fail in.
var (
	ErrRegistryQuery = errors.New("could not get tarball url from registry")
	ErrDownload      = errors.New("could not download tarball")
	ErrExtract       = errors.New("could not unpack tarball")
)

// ResolutionError reports a failed remote acquisition. Both the stage and
// the cause match with errors.Is.
type ResolutionError struct {
	Template string
	Stage    error
	Cause    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("invalid template %q: %v: %v", e.Template, e.Stage, e.Cause)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{e.Stage, e.Cause}
}

func stageError(template string, stage, cause error) error {
	return &ResolutionError{Template: template, Stage: stage, Cause: cause}
}
