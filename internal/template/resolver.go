// Package template resolves project template names to directories on disk,
// downloading and unpacking the package from the registry when no local
// copy exists.
package template

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/singleflight"

	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
)

// packageDir is the directory npm tarballs unpack into.
const packageDir = "package"

// defaultCacheSize bounds the number of memoized remote resolutions.
const defaultCacheSize = 64

// Source tells where a resolved template came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceCached Source = "cached"
	SourceRemote Source = "remote"
)

// Result is a resolved template directory.
type Result struct {
	Name   string
	Dir    string
	Source Source
}

// Options configures a Resolver. Zero values select defaults.
type Options struct {
	Aliases      []Alias
	TemplatesDir string
	WorkDir      string
	CacheDir     string
	CacheSize    int

	Registry  Registry
	Fetcher   Fetcher
	Extractor Extractor
	Logger    *log.Logger
}

// Resolver turns template names into directories.
type Resolver struct {
	aliases      AliasTable
	templatesDir string
	workDir      string
	cacheDir     string

	registry  Registry
	fetcher   Fetcher
	extractor Extractor
	log       *log.Logger

	group singleflight.Group
	cache *lru.Cache[string, string]
}

// NewResolver creates a Resolver. Without aliases the built-in table is
// used; WorkDir defaults to the current directory and CacheDir to a
// directory under the system temp dir.
func NewResolver(opts Options) (*Resolver, error) {
	r := &Resolver{
		templatesDir: opts.TemplatesDir,
		workDir:      opts.WorkDir,
		cacheDir:     opts.CacheDir,
		registry:     opts.Registry,
		fetcher:      opts.Fetcher,
		extractor:    opts.Extractor,
		log:          opts.Logger,
	}

	if opts.Aliases == nil {
		r.aliases = NewAliasTable(DefaultAliases())
	} else {
		r.aliases = NewAliasTable(opts.Aliases)
	}
	if r.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		r.workDir = wd
	}
	if r.cacheDir == "" {
		r.cacheDir = filepath.Join(os.TempDir(), "buildpack-templates")
	}
	if r.registry == nil {
		r.registry = NewNPMRegistry("")
	}
	if r.fetcher == nil {
		r.fetcher = NewHTTPFetcher()
	}
	if r.extractor == nil {
		r.extractor = TarExtractor{}
	}
	if r.log == nil {
		r.log = output.With("template")
	}

	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating resolution cache: %w", err)
	}
	r.cache = cache

	return r, nil
}

// Aliases returns the alias table.
func (r *Resolver) Aliases() AliasTable {
	return r.aliases
}

// Resolve returns the directory holding the files of the named template.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	res, err := r.Lookup(ctx, name)
	if err != nil {
		return "", err
	}
	return res.Dir, nil
}

// Lookup resolves name and reports where the directory came from. Local
// copies win over the registry. Concurrent lookups of the same name share
// one download.
func (r *Resolver) Lookup(ctx context.Context, name string) (Result, error) {
	alias, aliased := r.aliases.Lookup(name)

	if dir, ok := r.probeLocal(alias, aliased); ok {
		return Result{Name: name, Dir: dir, Source: SourceLocal}, nil
	}

	if alias.Package == "" {
		return Result{}, oerrors.NewNotFoundError(
			fmt.Sprintf("template %q has no local directory and no package", name),
			alias.candidateDir(r.templatesDir, r.workDir, aliased),
			"Check the template's dir, or give it a package to download.")
	}

	if dir, ok := r.cache.Get(name); ok {
		r.log.Debug("template resolved from cache", "template", name, "dir", dir)
		return Result{Name: name, Dir: dir, Source: SourceCached}, nil
	}

	v, err, shared := r.group.Do(name, func() (any, error) {
		res, err := r.acquire(ctx, name, alias.Package)
		if err != nil {
			return Result{}, err
		}
		r.cache.Add(name, res.Dir)
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	if shared {
		r.log.Debug("shared in-flight resolution", "template", name)
	}
	return v.(Result), nil
}

// probeLocal tries the local candidates in order: the template directory,
// an installed module, then a literal path.
func (r *Resolver) probeLocal(alias Alias, aliased bool) (string, bool) {
	if dir := alias.candidateDir(r.templatesDir, r.workDir, aliased); readableDir(dir) {
		r.log.Debug("found template directory", "template", alias.Name, "dir", dir)
		return dir, true
	}
	if alias.Package == "" {
		return "", false
	}

	dir, err := installedModule(r.workDir, alias.Package)
	if err == nil {
		r.log.Debug("found installed module", "template", alias.Name, "dir", dir)
		return dir, true
	}
	r.log.Debug("no installed module", "package", alias.Package, "err", err)

	dir, err = literalPath(r.workDir, alias.Package)
	if err == nil {
		r.log.Debug("found package at path", "template", alias.Name, "dir", dir)
		return dir, true
	}
	r.log.Debug("not a package path", "package", alias.Package, "err", err)

	return "", false
}

// acquire downloads and unpacks pkg. Extraction happens in a private
// staging directory that is renamed to a content-addressed location once
// complete, so concurrent processes never observe partial trees.
func (r *Resolver) acquire(ctx context.Context, name, pkg string) (Result, error) {
	r.log.Info("finding template tarball", "package", pkg)
	url, err := r.registry.TarballURL(ctx, pkg)
	if err != nil {
		return Result{}, stageError(name, ErrRegistryQuery, err)
	}

	final := filepath.Join(r.cacheDir, cacheKey(pkg, url))
	if readableDir(filepath.Join(final, packageDir)) {
		r.log.Debug("reusing unpacked tarball", "dir", final)
		return Result{Name: name, Dir: filepath.Join(final, packageDir), Source: SourceCached}, nil
	}

	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return Result{}, stageError(name, ErrExtract, err)
	}
	staging, err := os.MkdirTemp(r.cacheDir, ".staging-"+sanitize(pkg)+"-")
	if err != nil {
		return Result{}, stageError(name, ErrExtract, err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := os.RemoveAll(staging); err != nil {
				r.log.Warn("removing staging directory", "dir", staging, "err", err)
			}
		}
	}()

	r.log.Info("downloading and unpacking", "url", url)
	body, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return Result{}, stageError(name, ErrDownload, err)
	}
	defer body.Close()

	if err := r.extractor.Extract(ctx, body, staging); err != nil {
		return Result{}, stageError(name, ErrExtract, err)
	}
	if !readableDir(filepath.Join(staging, packageDir)) {
		return Result{}, stageError(name, ErrExtract, fmt.Errorf("tarball has no %s/ directory", packageDir))
	}

	if err := os.Rename(staging, final); err != nil {
		if !readableDir(filepath.Join(final, packageDir)) {
			return Result{}, stageError(name, ErrExtract, err)
		}
		// Another process finished first; its tree is identical.
		r.log.Debug("tarball already unpacked by another process", "dir", final)
	} else {
		committed = true
	}

	r.log.Info("unpacked template", "package", pkg)
	return Result{Name: name, Dir: filepath.Join(final, packageDir), Source: SourceRemote}, nil
}

// cacheKey names the unpack directory of a tarball.
func cacheKey(pkg, url string) string {
	sum := blake3.Sum256([]byte(url))
	return sanitize(pkg) + "-" + hex.EncodeToString(sum[:8])
}

// sanitize turns a package name into a single path element.
func sanitize(pkg string) string {
	s := strings.TrimPrefix(pkg, "@")
	s = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "..", "-").Replace(s)
	if s == "" || s == "." {
		return "package"
	}
	return s
}

// IsResolutionError reports whether err failed during remote acquisition.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
