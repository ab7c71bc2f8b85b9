package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/testutil"
)

// execute runs the root command with an isolated home directory and
// returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{"BUILDPACK_CONFIG", "BUILDPACK_REGISTRY", "BUILDPACK_CACHE_DIR", "BUILDPACK_TEMPLATES_DIR"} {
		t.Setenv(env, "")
	}

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--timestamps=false"}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cmdtypes.ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "buildpack", root.Use)
	for _, name := range []string{"config", "registry", "cache-dir", "templates-dir", "timestamps", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}

	for _, path := range [][]string{
		{"config", "build"},
		{"config", "diff"},
		{"config", "init"},
		{"template", "resolve"},
		{"template", "list"},
		{"manifest", "classify"},
		{"version"},
	} {
		c, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}

func TestVersionCmd_Execute(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "buildpack version "))
	assert.Contains(t, out, "CUE SDK")
}

func TestConfigBuild_JSON(t *testing.T) {
	project := testutil.NewProject(t, testutil.StorefrontProject)

	out, err := execute(t, "config", "build", project, "--mode", "production", "-o", "json")
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "production", cfg["mode"])
	assert.Equal(t, project, cfg["context"])
	assert.Equal(t, false, cfg["devtool"])

	outputSection, ok := cfg["output"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(project, "dist"), outputSection["path"])
}

func TestConfigBuild_YAML(t *testing.T) {
	project := testutil.NewProject(t, "")

	out, err := execute(t, "config", "build", project)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: development")
	assert.Contains(t, out, "context: "+project)
}

func TestConfigBuild_ExitCodes(t *testing.T) {
	project := testutil.NewProject(t, "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unsupported mode", []string{"config", "build", project, "--mode", "staging"}, cmdtypes.ExitValidationError},
		{"serve in production", []string{"config", "build", project, "--mode", "production", "--serve"}, cmdtypes.ExitValidationError},
		{"table output", []string{"config", "build", project, "-o", "table"}, cmdtypes.ExitValidationError},
		{"bad feature flag", []string{"config", "build", project, "--flag", "cssModules"}, -1},
		{"missing project", []string{"config", "build", filepath.Join(project, "nope")}, cmdtypes.ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.want >= 0 {
				assert.Equal(t, tt.want, exitCode(t, err))
			}
		})
	}
}

func TestConfigDiff(t *testing.T) {
	project := testutil.NewProject(t, testutil.StorefrontProject)

	out, err := execute(t, "config", "diff", project)
	require.NoError(t, err)
	assert.NotContains(t, out, "No differences")
	assert.Contains(t, out, "mode")

	out, err = execute(t, "config", "diff", project, "--from", "production", "--to", "production")
	require.NoError(t, err)
	assert.Equal(t, "No differences between production and production\n", out)
}

func TestConfigInit_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BUILDPACK_CONFIG", "")

	root := NewRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init"})
	require.NoError(t, root.Execute())

	assert.FileExists(t, filepath.Join(home, ".buildpack", "config.yaml"))
	assert.Contains(t, stdout.String(), "Config file created")
}

func TestManifestClassify_Missing(t *testing.T) {
	_, err := execute(t, "manifest", "classify", filepath.Join(t.TempDir(), "asset-manifest.json"))
	require.Error(t, err)
	assert.Equal(t, cmdtypes.ExitNotFound, exitCode(t, err))
}
