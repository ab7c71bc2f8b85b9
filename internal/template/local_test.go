package template

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryFile(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"default index", map[string]string{"index.js": ""}, "index.js"},
		{"main field", map[string]string{"package.json": `{"main":"lib/main.js"}`, "lib/main.js": ""}, "lib/main.js"},
		{"main without extension", map[string]string{"package.json": `{"main":"lib/main"}`, "lib/main.js": ""}, "lib/main.js"},
		{"main directory", map[string]string{"package.json": `{"main":"lib"}`, "lib/index.js": ""}, "lib/index.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)
			got, err := entryFile(dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tt.want)), got)
		})
	}
}

func TestEntryFile_Missing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"package.json": `{"main":"dist/index.js"}`})
	_, err := entryFile(dir)
	assert.Error(t, err)

	writeFiles(t, dir, map[string]string{"package.json": `{not json`})
	_, err = entryFile(dir)
	assert.Error(t, err)
}

func TestPackageRoot(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"pkg/package.json":       "{}",
		"pkg/src/a/b/c.js":       "",
		"pkg/src/a/package.json": "{}",
	})

	got, err := packageRoot(filepath.Join(dir, "pkg", "src", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pkg", "src", "a"), got)

	got, err = packageRoot(filepath.Join(dir, "pkg", "src"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pkg"), got)
}

func TestInstalledModule_PathsAreNotPackages(t *testing.T) {
	for _, name := range []string{"./x", "../x", "/abs/x", "."} {
		_, err := installedModule(t.TempDir(), name)
		assert.Error(t, err, name)
	}
}

func TestLiteralPath_MustExist(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"package.json": "{}"})

	_, err := literalPath(dir, "does-not-exist")
	assert.Error(t, err)

	got, err := literalPath(dir, ".")
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
