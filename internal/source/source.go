// Package source reads spec documents from local files or http(s) URLs.
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	resty "gopkg.in/resty.v1"
)

// Read returns the raw bytes of ref plus a short display name for it. A ref
// starting with http:// or https:// is fetched over the client; anything
// else is treated as a file path.
func Read(ctx context.Context, client *resty.Client, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return fetch(ctx, client, ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, "", fmt.Errorf("reading spec file: %w", err)
	}
	return data, filepath.Base(ref), nil
}

func fetch(ctx context.Context, client *resty.Client, rawURL string) ([]byte, string, error) {
	resp, err := client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetching spec: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, "", fmt.Errorf("fetching spec: server answered %s", resp.Status())
	}
	return resp.Body(), displayName(rawURL), nil
}

func displayName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
		if u.Host != "" {
			return u.Host
		}
	}
	return rawURL
}
