// Package feed retrieves and parses the LCSD venue and event documents.
package feed

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// fetchTimeout bounds a single feed download.  On expiry the fetch fails
// like any other network error and the caller falls back to the cached copy.
const fetchTimeout = 50 * time.Second

// Fetcher downloads feed documents into a local cache directory.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher with a bounded-timeout HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// Fetch retrieves url and stores the body at dest.  The write is skipped
// when an existing file at dest has the same MD5 as the downloaded body, so
// repeated startups against an unchanged feed leave the cache untouched.
// It reports whether the file was (re)written.  Errors are soft from the
// pipeline's point of view: the caller logs them and proceeds with whatever
// is already cached.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	sum := md5.Sum(body)
	if old, err := os.ReadFile(dest); err == nil && md5.Sum(old) == sum {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
