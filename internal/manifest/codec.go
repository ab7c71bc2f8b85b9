package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/tidwall/jsonc"
)

// Reserved top-level keys of an annotated asset manifest.
const (
	keyEntrypoints = "entrypoints"
	keyBundles     = "bundles"
)

// DecodeError reports a manifest value that is neither a file name nor a
// list of file names.
type DecodeError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("decoding asset manifest: %v", e.Err)
	}
	return fmt.Sprintf("decoding asset manifest key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode reads an asset manifest, keeping the order of its keys.
// Comments and trailing commas are tolerated. The "bundles" block and the
// per-type objects written by Encode are skipped, so decoding an annotated
// manifest yields the manifest it was produced from.
func Decode(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, &DecodeError{Err: err}
	}

	m := &Manifest{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &DecodeError{Err: fmt.Errorf("unexpected token %v", tok)}
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, &DecodeError{Key: key, Err: err}
		}

		switch {
		case key == keyEntrypoints:
			if err := decodeEntrypoints(m, raw); err != nil {
				return nil, &DecodeError{Key: key, Err: err}
			}
		case key == keyBundles:
			continue
		case isObject(raw) && !hasExt(key):
			// type bucket written by Encode
			continue
		default:
			var v Value
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, &DecodeError{Key: key, Err: err}
			}
			m.Set(key, v)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return m, nil
}

// decodeEntrypoints accepts both {"client": {"js": [...]}} and the
// {"client": {"assets": {"js": [...]}}} layout.
func decodeEntrypoints(m *Manifest, raw json.RawMessage) error {
	var entries map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}

	for name, groups := range entries {
		if assets, ok := groups["assets"]; ok {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(assets, &nested); err != nil {
				return fmt.Errorf("entry point %q: %w", name, err)
			}
			groups = nested
		}
		for fileType, filesRaw := range groups {
			var v Value
			if err := json.Unmarshal(filesRaw, &v); err != nil {
				return fmt.Errorf("entry point %q type %q: %w", name, fileType, err)
			}
			m.SetEntrypoint(name, fileType, v.Files()...)
		}
	}
	return nil
}

// Encode writes the annotated asset manifest: the original entries in
// order, the entry points, the bundles block and one object per file type.
func Encode(w io.Writer, m *Manifest, b ClassifiedBundle) error {
	types := make([]string, 0, len(b.ByType))
	for ext := range b.ByType {
		types = append(types, ext)
	}
	sort.Strings(types)

	reserved := map[string]bool{keyEntrypoints: true, keyBundles: true}
	for _, ext := range types {
		reserved[ext] = true
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	for _, e := range m.Entries {
		if reserved[e.Name] {
			continue
		}
		if err := field(e.Name, e.Value); err != nil {
			return err
		}
	}

	entrypoints := m.Entrypoints
	if entrypoints == nil {
		entrypoints = map[string]map[string][]string{}
	}
	if err := field(keyEntrypoints, entrypoints); err != nil {
		return err
	}
	if err := field(keyBundles, b); err != nil {
		return err
	}
	for _, ext := range types {
		if err := field(ext, b.ByType[ext]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func hasExt(name string) bool {
	_, ext := splitExt(name)
	return ext != ""
}
