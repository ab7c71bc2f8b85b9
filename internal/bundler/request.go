// Package bundler assembles the bundler configuration for a client build.
//
// The assembler does not run the bundler. It decides how sources are
// transformed, how output is named and split, and which plugins and
// optimizations run, for the development or the production mode.
package bundler

import (
	"context"

	oerrors "github.com/pwakit/buildpack/internal/errors"
)

// Mode selects the configuration branch.
type Mode string

const (
	// ModeDevelopment favors fast rebuilds and readable output.
	ModeDevelopment Mode = "development"

	// ModeProduction favors small, optimized output.
	ModeProduction Mode = "production"
)

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return m == ModeDevelopment || m == ModeProduction
}

// ValidModes returns the recognized mode names.
func ValidModes() []string {
	return []string{string(ModeDevelopment), string(ModeProduction)}
}

// ParseMode converts s to a Mode. Only the exact mode names are accepted.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return m, &UnsupportedModeError{Mode: s}
	}
	return m, nil
}

// Feature flag names. Each flag lists extra directories, usually inside
// installed packages, that opt in to a source transform.
const (
	FlagGraphQLQueries = "graphqlQueries"
	FlagESModules      = "esModules"
	FlagCSSModules     = "cssModules"
	FlagRootComponents = "rootComponents"
	FlagUpward         = "upward"
)

// FeatureFlags maps a flag name to the directories that declare it.
type FeatureFlags map[string][]string

// Paths returns the directories declaring flag, in declaration order.
func (f FeatureFlags) Paths(flag string) []string {
	return append([]string{}, f[flag]...)
}

// Paths locates the project's sources and build output.
type Paths struct {
	// Src is the source tree root. The client entry is Src/index.js.
	Src string

	// Output is the directory the bundler writes to.
	Output string
}

// ProjectConfig exposes named sections of the project configuration.
type ProjectConfig interface {
	// Section returns the named section, or an empty map.
	Section(name string) map[string]any

	// Sections merges the named sections left to right; later keys win.
	Sections(names ...string) map[string]any

	// Env returns the variables injected into client code.
	Env() map[string]string
}

// DevServerConfigurator prepares a configuration for interactive serving.
// It mutates cfg in place.
type DevServerConfigurator interface {
	Configure(ctx context.Context, opts map[string]any, cfg *Configuration) error
}

// BuildRequest is the input to Assemble. It is not modified.
type BuildRequest struct {
	Mode    Mode
	Context string
	Paths   Paths

	FeatureFlags FeatureFlags

	// VendorPackages are package name fragments grouped into the vendor
	// chunk. Empty means every installed package.
	VendorPackages []string

	ProjectConfig ProjectConfig

	// TranspilerConfigPresent reports whether the project carries its own
	// transpiler configuration at its root.
	TranspilerConfigPresent bool

	// InteractiveServer is set when the configuration is for a running
	// dev server rather than a one-off build.
	InteractiveServer bool
}

// Validate checks the request fields that do not depend on the mode.
func (r BuildRequest) Validate() error {
	if r.Context == "" {
		return oerrors.Wrap(oerrors.ErrValidation, "build request: context directory is required")
	}
	if r.Paths.Src == "" {
		return oerrors.Wrap(oerrors.ErrValidation, "build request: source directory is required")
	}
	if r.Paths.Output == "" {
		return oerrors.Wrap(oerrors.ErrValidation, "build request: output directory is required")
	}
	return nil
}

type emptyProject struct{}

func (emptyProject) Section(string) map[string]any     { return map[string]any{} }
func (emptyProject) Sections(...string) map[string]any { return map[string]any{} }
func (emptyProject) Env() map[string]string             { return map[string]string{} }
