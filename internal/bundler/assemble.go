package bundler

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/pwakit/buildpack/internal/output"
)

// vendorChunk is the cache group holding third-party code.
const vendorChunk = "vendor"

// Project configuration sections merged into the dev server options, in
// override order.
var devServerSections = []string{"devServer", "imageService", "customOrigin"}

// Assembler builds bundler configurations.
type Assembler struct {
	devServer DevServerConfigurator
	log       *log.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDevServer sets the configurator used for interactive server builds.
func WithDevServer(c DevServerConfigurator) Option {
	return func(a *Assembler) {
		a.devServer = c
	}
}

// WithLogger sets the logger. The default is a logger scoped to "bundler".
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		a.log = l
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = output.With("bundler")
	}
	return a
}

// Assemble builds the configuration for req. The mode-independent skeleton
// is built first; an unknown mode then fails with *UnsupportedModeError and
// no configuration, whatever else is wrong with the request.
func (a *Assembler) Assemble(ctx context.Context, req BuildRequest) (*Configuration, error) {
	if req.Mode.Valid() {
		if err := req.Validate(); err != nil {
			return nil, err
		}
	}

	project := req.ProjectConfig
	if project == nil {
		project = emptyProject{}
	}

	a.log.Debug("creating client config", "mode", req.Mode, "context", req.Context)

	cfg := &Configuration{
		Mode:    req.Mode,
		Context: req.Context,
		Entry: map[string]string{
			"client": filepath.Join(req.Paths.Src, "index.js"),
		},
		Output: Output{
			Path:                          req.Paths.Output,
			PublicPath:                    "/",
			Filename:                      "[name].js",
			ChunkFilename:                 "[name]-[chunkhash].js",
			StrictModuleExceptionHandling: true,
		},
		Module:  Module{Rules: moduleRules(req)},
		Resolve: resolveConfig(req.Context),
		Plugins: basePlugins(req, project),
		Devtool: DevtoolSourceMap,
		Optimization: Optimization{
			SplitChunks: SplitChunks{
				CacheGroups: map[string]CacheGroup{
					vendorChunk: {
						Test:   VendorPattern(req.VendorPackages),
						Chunks: "all",
					},
				},
			},
		},
	}

	if err := cfg.Module.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("assembling module rules: %w", err)
	}

	switch req.Mode {
	case ModeDevelopment:
		if err := a.development(ctx, req, project, cfg); err != nil {
			return nil, err
		}
	case ModeProduction:
		a.production(cfg)
	default:
		a.log.Debug("unable to verify environment, cancelling client config creation", "mode", req.Mode)
		return nil, &UnsupportedModeError{Mode: string(req.Mode)}
	}

	a.log.Debug("client config created", "mode", req.Mode)
	return cfg, nil
}

func (a *Assembler) development(ctx context.Context, req BuildRequest, project ProjectConfig, cfg *Configuration) error {
	a.log.Debug("modifying client config for development")

	opt := &cfg.Optimization
	opt.ModuleIDs = "named"
	opt.NodeEnv = string(ModeDevelopment)
	opt.Minimize = boolPtr(false)
	opt.OccurrenceOrder = true
	opt.UsedExports = true
	opt.ConcatenateModules = true
	opt.SideEffects = true

	if !req.InteractiveServer {
		return nil
	}

	// eval-source-map shows the untranspiled source, comments included.
	cfg.Devtool = DevtoolEvalSourceMap

	if a.devServer == nil {
		return errors.New("interactive server requested but no dev server configurator is set")
	}

	a.log.Debug("configuring dev server")
	if err := a.devServer.Configure(ctx, DevServerOptions(project), cfg); err != nil {
		return fmt.Errorf("configuring dev server: %w", err)
	}
	return nil
}

func (a *Assembler) production(cfg *Configuration) {
	a.log.Debug("modifying client config for production")

	cfg.Performance = &Performance{Hints: "warning"}
	cfg.Devtool = DevtoolNone
	cfg.Optimization.Minimize = boolPtr(true)
	cfg.Optimization.Minimizer = []Minimizer{{
		Name:     "TerserPlugin",
		Parallel: true,
		Cache:    true,
		Options: TerserOptions{
			Ecma:     8,
			Parse:    ParseOptions{Ecma: 8},
			Compress: CompressOptions{DropConsole: true},
			Output: PrintOptions{
				Ecma:       7,
				Semicolons: false,
			},
			// Function names are kept for stack traces and for code that
			// reflects on them.
			KeepFnames: true,
		},
	}}
}

// DevServerOptions merges the dev server option bag: explicit defaults, then
// the devServer, imageService and customOrigin sections, then the backend
// section, then the UPWARD path.
func DevServerOptions(project ProjectConfig) map[string]any {
	opts := map[string]any{
		"graphqlPlayground": true,
	}
	maps.Copy(opts, project.Sections(devServerSections...))
	maps.Copy(opts, project.Section("backend"))
	if upwardPath, ok := project.Section("upwardJs")["upwardPath"]; ok {
		opts["upwardPath"] = upwardPath
	}
	return opts
}

// VendorPattern returns the cache group test for third-party modules. With
// fragments, only packages matching one of them qualify.
func VendorPattern(fragments []string) string {
	pattern := `[\\/]node_modules[\\/]`

	unique := sets.New[string]()
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			unique.Insert(f)
		}
	}
	if unique.Len() == 0 {
		return pattern
	}

	quoted := make([]string, 0, unique.Len())
	for _, f := range sets.List(unique) {
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	return pattern + "(" + strings.Join(quoted, "|") + `)[\\/]`
}

func resolveConfig(root string) Resolve {
	return Resolve{
		Modules:    []string{root, "node_modules"},
		MainFiles:  []string{"index"},
		Extensions: []string{".wasm", ".mjs", ".js", ".json", ".graphql"},
		Alias:      map[string]string{},
	}
}
