package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const packageManifest = "package.json"

var errNoPackageRoot = errors.New("no package.json found")

// readableDir reports whether dir can be listed.
func readableDir(dir string) bool {
	_, err := os.ReadDir(dir)
	return err == nil
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// isPathLike reports whether name is a file path rather than a package
// specifier.
func isPathLike(name string) bool {
	return filepath.IsAbs(name) ||
		strings.HasPrefix(name, "./") ||
		strings.HasPrefix(name, "../") ||
		name == "." || name == ".."
}

// installedModule finds pkg in the node_modules directories above workDir
// and returns the root of the package that owns its entry file.
func installedModule(workDir, pkg string) (string, error) {
	if isPathLike(pkg) {
		return "", fmt.Errorf("%s is a path, not a package", pkg)
	}

	dir := workDir
	for {
		modDir := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg))
		if fi, err := os.Stat(modDir); err == nil && fi.IsDir() {
			entry, err := entryFile(modDir)
			if err != nil {
				return "", err
			}
			return packageRoot(filepath.Dir(entry))
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("cannot find module %s from %s", pkg, workDir)
		}
		dir = parent
	}
}

// entryFile returns the file a package import loads: its "main" field,
// defaulting to index.js, with the usual extension and index fallbacks.
func entryFile(modDir string) (string, error) {
	main := "index.js"
	if data, err := os.ReadFile(filepath.Join(modDir, packageManifest)); err == nil {
		var pj struct {
			Main string `json:"main"`
		}
		if err := json.Unmarshal(data, &pj); err != nil {
			return "", fmt.Errorf("parsing %s: %w", filepath.Join(modDir, packageManifest), err)
		}
		if pj.Main != "" {
			main = pj.Main
		}
	}

	base := filepath.Join(modDir, filepath.FromSlash(main))
	for _, candidate := range []string{
		base,
		base + ".js",
		base + ".json",
		filepath.Join(base, "index.js"),
	} {
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("entry file %s of %s does not exist", main, modDir)
}

// packageRoot walks up from start to the nearest directory holding a
// package.json.
func packageRoot(start string) (string, error) {
	dir := start
	for {
		if isFile(filepath.Join(dir, packageManifest)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", errNoPackageRoot, start)
		}
		dir = parent
	}
}

// literalPath treats name as a path relative to workDir and returns the
// package root that contains it. The path must exist.
func literalPath(workDir, name string) (string, error) {
	p := filepath.FromSlash(name)
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	p, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return packageRoot(p)
}
