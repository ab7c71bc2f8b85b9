// Package config provides configuration loading and management.
package config

import (
	"github.com/pwakit/buildpack/internal/template"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Config represents the buildpack CLI configuration.
// Loaded from ~/.buildpack/config.yaml.
type Config struct {
	// Registry is the package registry templates are downloaded from.
	// Env: BUILDPACK_REGISTRY, Default: https://registry.npmjs.org
	Registry string `json:"registry,omitempty" yaml:"registry,omitempty"`

	// CacheDir holds unpacked template tarballs.
	// Env: BUILDPACK_CACHE_DIR, Default: ~/.buildpack/cache
	CacheDir string `json:"cacheDir,omitempty" yaml:"cacheDir,omitempty"`

	// TemplatesDir is where aliased templates are checked out locally.
	// Env: BUILDPACK_TEMPLATES_DIR
	TemplatesDir string `json:"templatesDir,omitempty" yaml:"templatesDir,omitempty"`

	// Templates adds to or overrides the built-in template aliases.
	Templates []template.Alias `json:"templates,omitempty" yaml:"templates,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `buildpack config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Registry: template.DefaultRegistryURL,
		CacheDir: "~/.buildpack/cache",
		Log: LogConfig{
			Timestamps: &timestamps,
		},
	}
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Registry == "" {
		out.Registry = def.Registry
	}
	if out.CacheDir == "" {
		out.CacheDir = def.CacheDir
	}
	if out.Log.Timestamps == nil {
		out.Log.Timestamps = def.Log.Timestamps
	}
	return &out
}

// Merge overwrites fields of c with the non-empty fields of other.
// Template aliases are appended so that later entries win on lookup.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Registry != "" {
		c.Registry = other.Registry
	}
	if other.CacheDir != "" {
		c.CacheDir = other.CacheDir
	}
	if other.TemplatesDir != "" {
		c.TemplatesDir = other.TemplatesDir
	}
	if len(other.Templates) > 0 {
		c.Templates = append(append([]template.Alias(nil), c.Templates...), other.Templates...)
	}
	if other.Log.Timestamps != nil {
		ts := *other.Log.Timestamps
		c.Log.Timestamps = &ts
	}
}

// IsEmpty reports whether no field is set.
func (c *Config) IsEmpty() bool {
	return c.Registry == "" &&
		c.CacheDir == "" &&
		c.TemplatesDir == "" &&
		len(c.Templates) == 0 &&
		c.Log.Timestamps == nil
}

// Aliases returns the built-in aliases followed by the configured ones.
func (c *Config) Aliases() []template.Alias {
	return append(template.DefaultAliases(), c.Templates...)
}
