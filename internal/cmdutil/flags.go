// Package cmdutil provides shared command utilities: flag groups, project
// assembly, template resolver construction, and error reporting.
package cmdutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pwakit/buildpack/internal/bundler"
)

// BuildFlags holds flags common to commands that assemble a configuration
// (config build, config diff).
type BuildFlags struct {
	Mode    string
	Context string
	Src     string
	Out     string
	Serve   bool
	Vendor  []string
	Feature FeatureFlagsValue
}

// AddTo registers the build flags on the given cobra command. withMode
// controls whether --mode is offered.
func (f *BuildFlags) AddTo(cmd *cobra.Command, withMode bool) {
	if withMode {
		cmd.Flags().StringVarP(&f.Mode, "mode", "m", string(bundler.ModeDevelopment),
			"Build mode: "+strings.Join(bundler.ValidModes(), ", "))
		cmd.Flags().BoolVar(&f.Serve, "serve", false,
			"Configure for the interactive dev server (development only)")
	}
	cmd.Flags().StringVar(&f.Context, "context", "",
		"Project root directory (default: path argument or current directory)")
	cmd.Flags().StringVar(&f.Src, "src", "src",
		"Source directory, relative to the project root")
	cmd.Flags().StringVar(&f.Out, "out", "dist",
		"Output directory, relative to the project root")
	cmd.Flags().StringSliceVar(&f.Vendor, "vendor", nil,
		"Package name fragments bundled into the vendor chunk (can be repeated)")
	cmd.Flags().Var(&f.Feature, "flag",
		"Opt a module directory into a feature, as name=path (can be repeated)")
}

// Paths resolves the context, source and output directories. The context
// comes from --context, then the path argument, then the current directory.
func (f *BuildFlags) Paths(args []string) (root string, paths bundler.Paths, err error) {
	root = f.Context
	if root == "" {
		root = ResolveProjectPath(args)
	}
	if root, err = filepath.Abs(root); err != nil {
		return "", bundler.Paths{}, fmt.Errorf("resolving project directory: %w", err)
	}
	return root, bundler.Paths{
		Src:    under(root, f.Src),
		Output: under(root, f.Out),
	}, nil
}

func under(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// ResolveProjectPath returns the project path from command args,
// defaulting to the current directory.
func ResolveProjectPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// FeatureFlagsValue is a repeatable name=path flag.
type FeatureFlagsValue struct {
	flags bundler.FeatureFlags
}

var _ pflag.Value = (*FeatureFlagsValue)(nil)

// String implements pflag.Value.
func (v *FeatureFlagsValue) String() string {
	if len(v.flags) == 0 {
		return ""
	}
	names := make([]string, 0, len(v.flags))
	for name := range v.flags {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		for _, p := range v.flags[name] {
			parts = append(parts, name+"="+p)
		}
	}
	return strings.Join(parts, ",")
}

// Set implements pflag.Value.
func (v *FeatureFlagsValue) Set(s string) error {
	name, path, ok := strings.Cut(s, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return fmt.Errorf("expected name=path, got %q", s)
	}
	if v.flags == nil {
		v.flags = bundler.FeatureFlags{}
	}
	v.flags[name] = append(v.flags[name], path)
	return nil
}

// Type implements pflag.Value.
func (v *FeatureFlagsValue) Type() string {
	return "name=path"
}

// Resolved returns the flags with relative paths resolved against root.
func (v *FeatureFlagsValue) Resolved(root string) bundler.FeatureFlags {
	out := bundler.FeatureFlags{}
	for name, paths := range v.flags {
		for _, p := range paths {
			out[name] = append(out[name], under(root, p))
		}
	}
	return out
}
