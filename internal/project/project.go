// Package project loads the per-project build configuration: the
// buildpack.cue definition and the .env file next to it.
package project

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/pwakit/buildpack/internal/bundler"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
)

const (
	// FileName is the project definition file.
	FileName = "buildpack.cue"
	// EnvFileName holds environment variables exposed to client code.
	EnvFileName = ".env"
)

// Reserved top-level fields with dedicated accessors.
const (
	fieldEnv      = "env"
	fieldFeatures = "features"
	fieldVendor   = "vendor"
)

// Config is a loaded project configuration. It implements
// bundler.ProjectConfig.
type Config struct {
	dir   string
	path  string
	value cue.Value
	empty bool
	env   map[string]string
	log   *log.Logger
}

var _ bundler.ProjectConfig = (*Config)(nil)

// Load reads the project configuration in dir. A missing buildpack.cue or
// .env is treated as empty.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	cfg := &Config{
		dir:  absDir,
		path: filepath.Join(absDir, FileName),
		env:  map[string]string{},
		log:  output.With("project"),
	}

	data, err := os.ReadFile(cfg.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.empty = true
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", cfg.path, err)
	default:
		v := cuecontext.New().CompileBytes(data, cue.Filename(cfg.path))
		if v.Err() == nil {
			err = v.Validate(cue.Concrete(true))
		} else {
			err = v.Err()
		}
		if err != nil {
			return nil, &oerrors.DetailError{
				Type:     "invalid project configuration",
				Message:  cueerrors.Details(err, nil),
				Location: cfg.path,
				Hint:     "Run 'cue vet " + FileName + "' in the project directory for details.",
				Cause:    errors.Join(oerrors.ErrValidation, err),
			}
		}
		cfg.value = v
	}

	envPath := filepath.Join(absDir, EnvFileName)
	dotenv, err := godotenv.Read(envPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", envPath, err)
	default:
		cfg.env = dotenv
	}

	return cfg, nil
}

// Dir returns the absolute project directory.
func (c *Config) Dir() string { return c.dir }

// Path returns the path of the project definition file.
func (c *Config) Path() string { return c.path }

// lookup returns the value at a top-level path and whether it exists.
func (c *Config) lookup(name string) (cue.Value, bool) {
	if c.empty {
		return cue.Value{}, false
	}
	v := c.value.LookupPath(cue.ParsePath(name))
	return v, v.Exists()
}

// Section decodes the struct at name. A missing or non-struct section is
// returned as an empty map; a present but unusable one is also logged.
func (c *Config) Section(name string) map[string]any {
	out := map[string]any{}
	v, ok := c.lookup(name)
	if !ok {
		return out
	}
	if kind := v.IncompleteKind(); kind != cue.StructKind {
		c.log.Warn("ignoring project section that is not a struct", "section", name, "kind", kind, "path", c.path)
		return out
	}
	if err := v.Decode(&out); err != nil {
		c.log.Warn("ignoring project section that cannot be decoded", "section", name, "path", c.path, "err", err)
		return map[string]any{}
	}
	return out
}

// Sections merges the named sections left to right. Later keys win.
func (c *Config) Sections(names ...string) map[string]any {
	out := map[string]any{}
	for _, name := range names {
		maps.Copy(out, c.Section(name))
	}
	return out
}

// Env returns the .env values overlaid by the env section.
func (c *Config) Env() map[string]string {
	out := maps.Clone(c.env)
	if out == nil {
		out = map[string]string{}
	}
	for k, v := range c.Section(fieldEnv) {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// FeatureFlags returns the module directories opted into each feature.
// Relative paths are resolved against the project directory.
func (c *Config) FeatureFlags() (bundler.FeatureFlags, error) {
	flags := bundler.FeatureFlags{}
	v, ok := c.lookup(fieldFeatures)
	if !ok {
		return flags, nil
	}

	var raw map[string][]string
	if err := v.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: decoding %s: %w", c.path, fieldFeatures, err)
	}
	for flag, dirs := range raw {
		resolved := make([]string, 0, len(dirs))
		for _, d := range dirs {
			if !filepath.IsAbs(d) {
				d = filepath.Join(c.dir, d)
			}
			resolved = append(resolved, filepath.Clean(d))
		}
		flags[flag] = resolved
	}
	return flags, nil
}

// Vendor returns the package name fragments of the vendor chunk.
func (c *Config) Vendor() ([]string, error) {
	v, ok := c.lookup(fieldVendor)
	if !ok {
		return nil, nil
	}
	var out []string
	if err := v.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: decoding %s: %w", c.path, fieldVendor, err)
	}
	return out, nil
}

// SectionNames lists the top-level sections, sorted.
func (c *Config) SectionNames() []string {
	if c.empty {
		return nil
	}
	iter, err := c.value.Fields()
	if err != nil {
		return nil
	}
	var names []string
	for iter.Next() {
		names = append(names, iter.Selector().String())
	}
	sort.Strings(names)
	return names
}
