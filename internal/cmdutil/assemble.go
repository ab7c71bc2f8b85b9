package cmdutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pwakit/buildpack/internal/bundler"
	"github.com/pwakit/buildpack/internal/devserver"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
	"github.com/pwakit/buildpack/internal/project"
)

// transpilerConfigFiles are the project-wide transpiler configuration
// files. Any of them at the project root selects the "root" lookup mode.
var transpilerConfigFiles = []string{
	"babel.config.js",
	"babel.config.cjs",
	"babel.config.json",
}

// AssembleOpts configures AssembleProject.
type AssembleOpts struct {
	Args  []string
	Flags *BuildFlags
	// Mode overrides Flags.Mode when set.
	Mode string
}

// AssembleProject loads the project named by the flags and assembles its
// bundler configuration. Feature flags and vendor fragments from the
// command line are added to those of the project file.
func AssembleProject(ctx context.Context, opts AssembleOpts) (*bundler.Configuration, error) {
	f := opts.Flags
	raw := opts.Mode
	if raw == "" {
		raw = f.Mode
	}
	mode, err := bundler.ParseMode(raw)
	if err != nil {
		return nil, err
	}
	if f.Serve && mode != bundler.ModeDevelopment {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("--serve requires %s mode, got %s", bundler.ModeDevelopment, mode),
			"", "mode", "Drop --serve or use --mode development.")
	}

	root, paths, err := f.Paths(opts.Args)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, oerrors.NewNotFoundError("project directory does not exist", root, "")
	}

	proj, err := project.Load(root)
	if err != nil {
		return nil, err
	}
	output.Debug("loaded project configuration", "path", proj.Path(), "sections", proj.SectionNames())

	features, err := proj.FeatureFlags()
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), proj.Path(), "features", "")
	}
	for name, dirs := range f.Feature.Resolved(root) {
		features[name] = append(features[name], dirs...)
	}

	vendor, err := proj.Vendor()
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), proj.Path(), "vendor", "")
	}
	vendor = append(vendor, f.Vendor...)

	req := bundler.BuildRequest{
		Mode:                    mode,
		Context:                 root,
		Paths:                   paths,
		FeatureFlags:            features,
		VendorPackages:          vendor,
		ProjectConfig:           proj,
		TranspilerConfigPresent: HasTranspilerConfig(root),
		InteractiveServer:       f.Serve,
	}

	output.Debug("assembling configuration", "mode", mode, "context", root, "serve", f.Serve)
	return bundler.NewAssembler(bundler.WithDevServer(devserver.New())).Assemble(ctx, req)
}

// HasTranspilerConfig reports whether root carries a project-wide
// transpiler configuration file.
func HasTranspilerConfig(root string) bool {
	for _, name := range transpilerConfigFiles {
		if fi, err := os.Stat(filepath.Join(root, name)); err == nil && fi.Mode().IsRegular() {
			return true
		}
	}
	return false
}
