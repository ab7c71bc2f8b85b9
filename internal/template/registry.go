package template

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	oerrors "github.com/pwakit/buildpack/internal/errors"
)

// DefaultRegistryURL is the public package registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

// Registry finds the tarball of a package's latest version.
type Registry interface {
	TarballURL(ctx context.Context, pkg string) (string, error)
}

// NPMRegistry queries an npm-compatible registry over HTTP.
type NPMRegistry struct {
	baseURL string
	client  *resty.Client
}

// NewNPMRegistry creates a registry client. An empty baseURL selects the
// public registry.
func NewNPMRegistry(baseURL string) *NPMRegistry {
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}
	return &NPMRegistry{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

type packument struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Dist    struct {
		Tarball string `json:"tarball"`
	} `json:"dist"`
}

// TarballURL implements Registry.
func (r *NPMRegistry) TarballURL(ctx context.Context, pkg string) (string, error) {
	url := r.baseURL + "/" + escapePackage(pkg) + "/latest"

	var doc packument
	res, err := r.client.R().
		SetContext(ctx).
		SetResult(&doc).
		Get(url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("querying %s: %w", url, ctxErr)
		}
		return "", oerrors.NewConnectivityError(
			fmt.Sprintf("querying %s: %v", url, err),
			map[string]string{"Registry": r.baseURL},
			"Check network access to the registry, or point --registry at a reachable one.")
	}
	if res.IsError() {
		return "", statusError(url, res.StatusCode())
	}
	if doc.Dist.Tarball == "" {
		return "", fmt.Errorf("registry response for %s has no dist.tarball", pkg)
	}
	return doc.Dist.Tarball, nil
}

// escapePackage escapes the scope separator the way registries expect.
func escapePackage(pkg string) string {
	return strings.ReplaceAll(pkg, "/", "%2f")
}

// statusError maps an HTTP failure status to the matching category.
func statusError(url string, code int) error {
	category := oerrors.ErrConnectivity
	if code == http.StatusNotFound {
		category = oerrors.ErrNotFound
	}
	return fmt.Errorf("GET %s: %d %s: %w", url, code, http.StatusText(code), category)
}
