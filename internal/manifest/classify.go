package manifest

import (
	"path"
	"strings"
)

// Root component chunks are named RootCmp<Name> and are prefetched.
const (
	rootComponentPrefix = "RootCmp"
	scriptSuffix        = ".js"
)

// Classify partitions the manifest into eagerly loaded and prefetched
// files and groups every entry by file type. It never modifies m.
func Classify(m *Manifest) ClassifiedBundle {
	b := ClassifiedBundle{
		Load:     []string{},
		Prefetch: []string{},
		ByType:   make(map[string]map[string]Value),
	}

	if files, ok := m.Entrypoints[ClientEntry]["js"]; ok {
		b.Load = append(b.Load, files...)
	}

	for _, e := range m.Entries {
		if isRootComponentScript(e.Name) {
			b.Prefetch = append(b.Prefetch, e.Value.Files()...)
		}

		stem, ext := splitExt(e.Name)
		if ext == "" {
			continue
		}
		if b.ByType[ext] == nil {
			b.ByType[ext] = make(map[string]Value)
		}
		b.ByType[ext][stem] = e.Value
	}

	return b
}

func isRootComponentScript(name string) bool {
	return strings.HasPrefix(name, rootComponentPrefix) && strings.HasSuffix(name, scriptSuffix)
}

// splitExt splits the base name of an artifact into stem and extension
// (without the dot). Dotfiles such as ".env" have no extension.
func splitExt(name string) (stem, ext string) {
	if name == "" {
		return "", ""
	}
	base := path.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base, ""
	}
	return base[:i], base[i+1:]
}
