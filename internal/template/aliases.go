package template

import (
	"path/filepath"
	"sort"
)

// Alias maps a short template name to its package and local directory.
type Alias struct {
	// Name is the name users pass on the command line.
	Name string `json:"name" yaml:"name"`

	// Package is the package fetched from the registry when Dir is absent.
	Package string `json:"package" yaml:"package"`

	// Dir is the local checkout. Relative paths are resolved against the
	// resolver's templates directory.
	Dir string `json:"dir" yaml:"dir"`
}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() []Alias {
	return []Alias{
		{Name: "venia-concept", Package: "@magento/venia-concept", Dir: "venia-concept"},
	}
}

// AliasTable indexes aliases by name. Later entries override earlier ones.
type AliasTable map[string]Alias

// NewAliasTable builds a table from aliases.
func NewAliasTable(aliases ...[]Alias) AliasTable {
	t := AliasTable{}
	for _, set := range aliases {
		for _, a := range set {
			t[a.Name] = a
		}
	}
	return t
}

// Lookup returns the alias for name. Unknown names map to themselves for
// both package and directory.
func (t AliasTable) Lookup(name string) (Alias, bool) {
	if a, ok := t[name]; ok {
		return a, true
	}
	return Alias{Name: name, Package: name, Dir: name}, false
}

// List returns the aliases sorted by name.
func (t AliasTable) List() []Alias {
	out := make([]Alias, 0, len(t))
	for _, a := range t {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// candidateDir returns the directory probed first for a. Relative alias
// directories live under templatesDir; other names are taken relative to
// workDir.
func (a Alias) candidateDir(templatesDir, workDir string, aliased bool) string {
	if filepath.IsAbs(a.Dir) {
		return a.Dir
	}
	base := workDir
	if aliased && templatesDir != "" {
		base = templatesDir
	}
	if base == "" {
		return a.Dir
	}
	return filepath.Join(base, a.Dir)
}
