// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// StorefrontProject is a buildpack.cue for a small storefront that opts one
// installed package into CSS modules.
const StorefrontProject = `
devServer: {
	host: "localhost"
	port: 10000
}
backend: backendUrl: "https://backend.test/"
env: MAGENTO_BACKEND_EDITION: "CE"
features: cssModules: ["node_modules/@acme/venia-ui"]
vendor: ["react", "react-dom"]
`

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteFiles creates every file of files under dir. Keys are slash-separated
// relative paths.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, dir, filepath.FromSlash(name), content)
	}
}

// NewProject creates a project root in a temporary directory with the given
// buildpack.cue content and an empty src directory. An empty cue writes no
// project file.
func NewProject(t *testing.T, cue string) string {
	t.Helper()
	dir := t.TempDir()
	if cue != "" {
		WriteFile(t, dir, "buildpack.cue", cue)
	}
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("failed to create src dir: %v", err)
	}
	return dir
}

// NewTemplate creates a local template checkout named name under dir with a
// package.json, and returns its path.
func NewTemplate(t *testing.T, dir, name string) string {
	t.Helper()
	root := filepath.Join(dir, name)
	WriteFiles(t, root, map[string]string{
		"package.json": `{"name": "` + name + `", "main": "index.js"}`,
		"index.js":     "module.exports = {};\n",
	})
	return root
}
