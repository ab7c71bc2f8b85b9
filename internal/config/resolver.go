package config

import (
	"os"

	"github.com/pwakit/buildpack/internal/output"
	"github.com/pwakit/buildpack/internal/template"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value and the source it won from.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed holds values that lost to a higher precedence source.
	Shadowed map[ConfigSource]string
}

// resolveString picks the first non-empty value in precedence order:
// flag, environment variable, config file, default.
func resolveString(key, flagValue, envVar, configValue, defaultValue string) ResolvedValue {
	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flagValue},
		{SourceEnv, os.Getenv(envVar)},
		{SourceConfig, configValue},
		{SourceDefault, defaultValue},
	}

	rv := ResolvedValue{Key: key, Shadowed: map[ConfigSource]string{}}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if rv.Source == "" {
			rv.Value = c.value
			rv.Source = c.source
			continue
		}
		// The loader already folds the environment into the config value.
		if c.value != rv.Value {
			rv.Shadowed[c.source] = c.value
		}
	}
	return rv
}

// ResolveRegistryOptions contains options for registry resolution.
type ResolveRegistryOptions struct {
	// FlagValue is the --registry flag value (empty if not set).
	FlagValue string
	// ConfigValue is the registry value from config file (empty if not set).
	ConfigValue string
}

// ResolveRegistry resolves the registry URL using precedence:
// (1) --registry flag, (2) BUILDPACK_REGISTRY env, (3) config.registry,
// (4) the public registry.
func ResolveRegistry(opts ResolveRegistryOptions) ResolvedValue {
	return resolveString("registry", opts.FlagValue, "BUILDPACK_REGISTRY", opts.ConfigValue, template.DefaultRegistryURL)
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) BUILDPACK_CONFIG env, (3) ~/.buildpack/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}
	return resolveString("config", opts.FlagValue, EnvConfig, "", paths.ConfigFile), nil
}

// ResolveOptions contains the flag values that override the config file.
type ResolveOptions struct {
	RegistryFlag     string
	CacheDirFlag     string
	TemplatesDirFlag string
	Config           *Config
}

// Resolved holds the effective settings used by template resolution.
type Resolved struct {
	Registry     ResolvedValue
	CacheDir     ResolvedValue
	TemplatesDir ResolvedValue
}

// Values returns the resolved values in a stable order.
func (r *Resolved) Values() []ResolvedValue {
	return []ResolvedValue{r.Registry, r.CacheDir, r.TemplatesDir}
}

// Resolve applies flag > env > config > default precedence to every
// template setting. Paths are returned with ~ expanded.
func Resolve(opts ResolveOptions) (*Resolved, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}

	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Registry:     ResolveRegistry(ResolveRegistryOptions{FlagValue: opts.RegistryFlag, ConfigValue: cfg.Registry}),
		CacheDir:     resolveString("cacheDir", opts.CacheDirFlag, EnvCacheDir, cfg.CacheDir, paths.CacheDir),
		TemplatesDir: resolveString("templatesDir", opts.TemplatesDirFlag, "BUILDPACK_TEMPLATES_DIR", cfg.TemplatesDir, ""),
	}

	for _, rv := range []*ResolvedValue{&r.CacheDir, &r.TemplatesDir} {
		if rv.Value, err = ExpandPath(rv.Value); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
