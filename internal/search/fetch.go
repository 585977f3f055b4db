package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/keyhunt/keyhunt/internal/types"
)

const (
	defaultWebHost = "https://github.com"
	defaultRawHost = "https://raw.githubusercontent.com"
)

// ErrTruncated is returned together with the first MaxBytes of a body that
// was longer than the cap.
var ErrTruncated = errors.New("raw content truncated")

// Fetcher downloads the raw text behind a search item.
type Fetcher struct {
	// WebHost and RawHost drive the blob URL rewrite; empty means github.com.
	WebHost string
	RawHost string
	// MaxBytes caps the body read; zero means unlimited.
	MaxBytes int64
	Client   *http.Client
}

// RawURL turns a blob web URL into its raw-content URL by dropping the
// "/blob/" segment and swapping the web host for the raw host.
func (f *Fetcher) RawURL(htmlURL string) string {
	web, raw := f.WebHost, f.RawHost
	if web == "" {
		web = defaultWebHost
	}
	if raw == "" {
		raw = defaultRawHost
	}
	u := strings.Replace(htmlURL, "/blob/", "/", 1)
	if strings.HasPrefix(u, web) {
		u = raw + strings.TrimPrefix(u, web)
	}
	return u
}

// Fetch returns the item's inline content when it has any, otherwise the body
// of its raw URL.
func (f *Fetcher) Fetch(ctx context.Context, item types.SearchItem) (string, error) {
	if item.Content != "" {
		return item.Content, nil
	}
	if item.URL == "" {
		return "", fmt.Errorf("search item %s has no url", item.ID)
	}
	u := f.RawURL(item.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch raw content: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: u, Code: resp.StatusCode}
	}
	var r io.Reader = resp.Body
	if f.MaxBytes > 0 {
		r = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read raw content: %w", err)
	}
	if f.MaxBytes > 0 && int64(len(b)) > f.MaxBytes {
		return string(b[:f.MaxBytes]), ErrTruncated
	}
	return string(b), nil
}
