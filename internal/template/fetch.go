package template

import (
	"context"
	"fmt"
	"io"
	"time"

	"resty.dev/v3"

	oerrors "github.com/pwakit/buildpack/internal/errors"
)

// Fetcher streams the content at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher downloads tarballs over HTTP.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: resty.New().SetTimeout(5 * time.Minute),
	}
}

// Fetch implements Fetcher. The caller closes the returned body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("downloading %s: %w", url, ctxErr)
		}
		return nil, oerrors.NewConnectivityError(
			fmt.Sprintf("downloading %s: %v", url, err),
			map[string]string{"URL": url},
			"The registry listed this tarball but it could not be downloaded.")
	}

	body := res.RawResponse.Body
	if res.IsError() {
		body.Close()
		return nil, statusError(url, res.StatusCode())
	}
	return body, nil
}
