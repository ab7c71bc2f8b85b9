package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwakit/buildpack/internal/template"
)

func TestResolveRegistry_FlagPrecedence(t *testing.T) {
	t.Setenv("BUILDPACK_REGISTRY", "https://env.example.com")

	result := ResolveRegistry(ResolveRegistryOptions{
		FlagValue:   "https://flag.example.com",
		ConfigValue: "https://config.example.com",
	})

	assert.Equal(t, "https://flag.example.com", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "https://env.example.com", result.Shadowed[SourceEnv])
	assert.Equal(t, "https://config.example.com", result.Shadowed[SourceConfig])
	assert.Equal(t, template.DefaultRegistryURL, result.Shadowed[SourceDefault])
}

func TestResolveRegistry_EnvPrecedence(t *testing.T) {
	t.Setenv("BUILDPACK_REGISTRY", "https://env.example.com")

	result := ResolveRegistry(ResolveRegistryOptions{
		ConfigValue: "https://config.example.com",
	})

	assert.Equal(t, "https://env.example.com", result.Value)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Equal(t, "https://config.example.com", result.Shadowed[SourceConfig])
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveRegistry_EnvFoldedIntoConfig(t *testing.T) {
	t.Setenv("BUILDPACK_REGISTRY", "https://env.example.com")

	// The loader reports the env value as the config value too.
	result := ResolveRegistry(ResolveRegistryOptions{ConfigValue: "https://env.example.com"})

	assert.Equal(t, SourceEnv, result.Source)
	assert.NotContains(t, result.Shadowed, SourceConfig)
}

func TestResolveRegistry_Default(t *testing.T) {
	t.Setenv("BUILDPACK_REGISTRY", "")

	result := ResolveRegistry(ResolveRegistryOptions{})

	assert.Equal(t, template.DefaultRegistryURL, result.Value)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolveConfigPath(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")
		result, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/config.yaml"})
		require.NoError(t, err)
		assert.Equal(t, "/flag/config.yaml", result.Value)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
		assert.NotEmpty(t, result.Shadowed[SourceDefault])
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		result, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)
		assert.Contains(t, result.Value, ".buildpack")
		assert.Equal(t, "config.yaml", filepath.Base(result.Value))
		assert.Equal(t, SourceDefault, result.Source)
	})
}

func TestResolve(t *testing.T) {
	t.Setenv("BUILDPACK_REGISTRY", "")
	t.Setenv(EnvCacheDir, "")
	t.Setenv("BUILDPACK_TEMPLATES_DIR", "/env/templates")

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	r, err := Resolve(ResolveOptions{
		CacheDirFlag: "~/cache",
		Config: &Config{
			Registry:     "https://config.example.com",
			TemplatesDir: "/config/templates",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://config.example.com", r.Registry.Value)
	assert.Equal(t, SourceConfig, r.Registry.Source)
	assert.Equal(t, filepath.Join(home, "cache"), r.CacheDir.Value)
	assert.Equal(t, SourceFlag, r.CacheDir.Source)
	assert.Equal(t, "/env/templates", r.TemplatesDir.Value)
	assert.Equal(t, SourceEnv, r.TemplatesDir.Source)
	assert.Len(t, r.Values(), 3)
}

func TestResolve_NilConfig(t *testing.T) {
	t.Setenv("BUILDPACK_TEMPLATES_DIR", "")
	t.Setenv(EnvCacheDir, "")

	r, err := Resolve(ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, r.CacheDir.Source)
	assert.Empty(t, r.TemplatesDir.Value)
	assert.Empty(t, string(r.TemplatesDir.Source))
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "flag", string(SourceFlag))
	assert.Equal(t, "env", string(SourceEnv))
	assert.Equal(t, "config", string(SourceConfig))
	assert.Equal(t, "default", string(SourceDefault))
}
