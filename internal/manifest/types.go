// Package manifest reads asset manifests emitted by the bundler and
// classifies their artifacts into delivery tiers.
package manifest

import (
	"encoding/json"
	"fmt"
)

// ClientEntry is the name of the entry point whose scripts are loaded eagerly.
const ClientEntry = "client"

// Value is the output of one manifest entry: a single file name or an
// ordered list of file names. It remembers which form it was decoded from.
type Value struct {
	files []string
	list  bool
}

// String returns a single-file value.
func String(name string) Value {
	return Value{files: []string{name}}
}

// List returns a multi-file value.
func List(names ...string) Value {
	return Value{files: append([]string{}, names...), list: true}
}

// Files returns the file names of v. A single-file value yields a
// one-element slice.
func (v Value) Files() []string {
	return append([]string{}, v.files...)
}

// IsList reports whether v was written as a list.
func (v Value) IsList() bool {
	return v.list
}

// MarshalJSON writes v in the form it was decoded from.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.list {
		if v.files == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.files)
	}
	if len(v.files) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(v.files[0])
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = String(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a file name or a list of file names, got %s", data)
	}
	*v = List(many...)
	return nil
}

// Entry is one logical artifact and the file(s) produced for it.
type Entry struct {
	Name  string
	Value Value
}

// Manifest is a flat mapping from logical artifact name to output file
// name(s). Entries keep the order in which the bundler emitted them.
type Manifest struct {
	// Entries in emission order.
	Entries []Entry

	// Entrypoints maps an entry point name to its files grouped by type,
	// e.g. Entrypoints["client"]["js"].
	Entrypoints map[string]map[string][]string
}

// Set adds an entry, or replaces the value of an existing entry in place.
func (m *Manifest) Set(name string, v Value) {
	for i := range m.Entries {
		if m.Entries[i].Name == name {
			m.Entries[i].Value = v
			return
		}
	}
	m.Entries = append(m.Entries, Entry{Name: name, Value: v})
}

// Get returns the value stored under name.
func (m *Manifest) Get(name string) (Value, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

// SetEntrypoint records the files of one type produced for an entry point.
func (m *Manifest) SetEntrypoint(entry, fileType string, files ...string) {
	if m.Entrypoints == nil {
		m.Entrypoints = make(map[string]map[string][]string)
	}
	if m.Entrypoints[entry] == nil {
		m.Entrypoints[entry] = make(map[string][]string)
	}
	m.Entrypoints[entry][fileType] = append([]string{}, files...)
}

// ClassifiedBundle is the delivery plan derived from a manifest.
type ClassifiedBundle struct {
	// Load lists the files that must be loaded eagerly.
	Load []string `json:"load"`

	// Prefetch lists root component files loaded ahead of need.
	Prefetch []string `json:"prefetch"`

	// ByType groups every extension-bearing entry by extension and then by
	// its name without the extension.
	ByType map[string]map[string]Value `json:"-"`
}
