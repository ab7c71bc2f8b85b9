package template

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Extractor unpacks an archive stream into a directory.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, dir string) error
}

// TarExtractor unpacks gzip-compressed tarballs.
type TarExtractor struct{}

// Extract implements Extractor. Entries that would land outside dir are
// rejected, as are entries whose parent path runs through a symbolic link
// unpacked earlier. Device files and other special entries are skipped.
func (TarExtractor) Extract(ctx context.Context, r io.Reader, dir string) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("opening target directory: %w", err)
	}
	defer root.Close()

	tr := tar.NewReader(zr)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		name := filepath.FromSlash(hdr.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("tar entry %q escapes the target directory", hdr.Name)
		}
		linked, err := throughSymlink(root, name)
		if err != nil {
			return fmt.Errorf("checking %s: %w", hdr.Name, err)
		}
		if linked {
			return fmt.Errorf("tar entry %q is written through a symbolic link", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(name, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(root, name, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", hdr.Name, err)
			}
		case tar.TypeSymlink:
			link := filepath.FromSlash(hdr.Linkname)
			if filepath.IsAbs(link) || !filepath.IsLocal(filepath.Join(filepath.Dir(name), link)) {
				return fmt.Errorf("tar entry %q links outside the target directory", hdr.Name)
			}
			if err := root.MkdirAll(filepath.Dir(name), 0o755); err != nil {
				return err
			}
			if err := root.Symlink(link, name); err != nil {
				return err
			}
		}
	}
}

// throughSymlink reports whether an existing parent of name inside root is
// a symbolic link.
func throughSymlink(root *os.Root, name string) (bool, error) {
	parent := filepath.Dir(name)
	if parent == "." {
		return false, nil
	}

	prefix := ""
	for _, part := range strings.Split(parent, string(filepath.Separator)) {
		prefix = filepath.Join(prefix, part)
		fi, err := root.Lstat(prefix)
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if fi.Mode()&fs.ModeSymlink != 0 {
			return true, nil
		}
	}
	return false, nil
}

func writeFile(root *os.Root, name string, r io.Reader, perm os.FileMode) error {
	if err := root.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	// Packed files are always readable by their owner.
	f, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
