package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/testutil"
)

const assetManifest = `{
  "client.js": "client.a1b2.js",
  "RootCmpHome.js": "RootCmpHome.c3d4.js",
  "RootCmpHome.css": "RootCmpHome.e5f6.css",
  "entrypoints": {"client": {"js": ["runtime.0.js", "client.a1b2.js"]}}
}`

func classify(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := NewManifestCmd(&cmdtypes.GlobalConfig{})
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(append([]string{"classify"}, args...))
	err := c.Execute()
	return out.String(), err
}

func TestClassify_JSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "asset-manifest.json", assetManifest)

	out, err := classify(t, path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	bundles, ok := doc["bundles"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"runtime.0.js", "client.a1b2.js"}, bundles["load"])
	assert.Equal(t, []any{"RootCmpHome.c3d4.js"}, bundles["prefetch"])

	css, ok := doc["css"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "RootCmpHome.e5f6.css", css["RootCmpHome"])
}

func TestClassify_Table(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "asset-manifest.json", assetManifest)

	out, err := classify(t, path, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "client.a1b2.js")
	assert.Contains(t, out, "RootCmpHome.c3d4.js")
	assert.Contains(t, out, "prefetch")
	assert.NotContains(t, out, "RootCmpHome.e5f6.css")
}

func TestClassify_Errors(t *testing.T) {
	dir := t.TempDir()
	valid := testutil.WriteFile(t, dir, "asset-manifest.json", assetManifest)
	broken := testutil.WriteFile(t, dir, "broken.json", `["not", "an", "object"]`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing file", []string{filepath.Join(dir, "missing.json")}, cmdtypes.ExitNotFound},
		{"not an object", []string{broken}, cmdtypes.ExitValidationError},
		{"yaml output", []string{valid, "-o", "yaml"}, cmdtypes.ExitValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classify(t, tt.args...)
			var exitErr *cmdtypes.ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, tt.want, exitErr.Code)
		})
	}
}
