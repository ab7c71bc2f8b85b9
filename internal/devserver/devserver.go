// Package devserver configures the interactive development server of a
// bundler configuration.
package devserver

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pwakit/buildpack/internal/bundler"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
)

// DefaultHost is used when the options carry no host.
const DefaultHost = "localhost"

// Backend paths forwarded to the backend origin.
var proxiedPaths = []string{"/graphql", "/rest", "/media"}

// Option keys consumed by the configurator. Anything else lands in Extra.
var knownOptions = map[string]bool{
	"host":              true,
	"port":              true,
	"https":             true,
	"hot":               true,
	"graphqlPlayground": true,
	"upwardPath":        true,
	"backendUrl":        true,
}

// Configurator is the default bundler.DevServerConfigurator.
type Configurator struct {
	log *log.Logger

	// listen is replaced in tests.
	listen func(ctx context.Context, addr string) (net.Listener, error)
}

var _ bundler.DevServerConfigurator = (*Configurator)(nil)

// New creates a Configurator.
func New() *Configurator {
	return &Configurator{
		log: output.With("devserver"),
		listen: func(ctx context.Context, addr string) (net.Listener, error) {
			var lc net.ListenConfig
			return lc.Listen(ctx, "tcp", addr)
		},
	}
}

// Configure writes the dev server section of cfg from opts and points the
// public path at the server.
func (c *Configurator) Configure(ctx context.Context, opts map[string]any, cfg *bundler.Configuration) error {
	host := stringOpt(opts, "host")
	if host == "" {
		host = DefaultHost
	}

	port, err := intOpt(opts, "port")
	if err != nil {
		return oerrors.NewValidationError(err.Error(), "", "devServer.port", "Use a port number between 0 and 65535; 0 picks a free port.")
	}
	if port == 0 {
		if port, err = c.freePort(ctx); err != nil {
			return fmt.Errorf("finding a free port: %w", err)
		}
		c.log.Debug("picked free port", "port", port)
	}

	ds := &bundler.DevServer{
		Host:              host,
		Port:              port,
		HTTPS:             boolOpt(opts, "https", false),
		Hot:               boolOpt(opts, "hot", true),
		GraphQLPlayground: boolOpt(opts, "graphqlPlayground", true),
		UpwardPath:        stringOpt(opts, "upwardPath"),
	}

	scheme := "http"
	if ds.HTTPS {
		scheme = "https"
	}
	ds.PublicPath = fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(host, strconv.Itoa(port)))

	if backend := strings.TrimRight(stringOpt(opts, "backendUrl"), "/"); backend != "" {
		ds.Proxy = make(map[string]string, len(proxiedPaths))
		for _, p := range proxiedPaths {
			ds.Proxy[p] = backend
		}
	}

	for k, v := range opts {
		if knownOptions[k] {
			continue
		}
		if ds.Extra == nil {
			ds.Extra = map[string]any{}
		}
		ds.Extra[k] = v
	}

	cfg.DevServer = ds
	cfg.Output.PublicPath = ds.PublicPath

	c.log.Debug("dev server configured", "url", ds.PublicPath)
	return nil
}

func (c *Configurator) freePort(ctx context.Context) (int, error) {
	l, err := c.listen(ctx, ":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address %s", l.Addr())
	}
	return addr.Port, nil
}

func stringOpt(opts map[string]any, key string) string {
	switch v := opts[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func boolOpt(opts map[string]any, key string, def bool) bool {
	switch v := opts[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func intOpt(opts map[string]any, key string) (int, error) {
	var n int
	switch v := opts[key].(type) {
	case nil:
		return 0, nil
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
	if n < 0 || n > 65535 {
		return 0, fmt.Errorf("%s %d out of range", key, n)
	}
	return n, nil
}
