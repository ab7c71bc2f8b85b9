// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config, internal/cmd/template,
// internal/cmd/manifest).
package cmdtypes

import (
	"github.com/pwakit/buildpack/internal/config"
	oerrors "github.com/pwakit/buildpack/internal/errors"
)

// GlobalFlags holds the persistent flag values shared by every command.
type GlobalFlags struct {
	Config       string
	Verbose      bool
	Registry     string
	CacheDir     string
	TemplatesDir string
	Timestamps   bool
}

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed into every sub-command
// constructor.
type GlobalConfig struct {
	Flags GlobalFlags

	// Config is the loaded config file merged with the environment.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// Resolved holds the effective template settings.
	Resolved *config.Resolved
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess           = oerrors.ExitSuccess
	ExitGeneralError      = oerrors.ExitGeneralError
	ExitValidationError   = oerrors.ExitValidationError
	ExitConnectivityError = oerrors.ExitConnectivityError
	ExitPermissionDenied  = oerrors.ExitPermissionDenied
	ExitNotFound          = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
