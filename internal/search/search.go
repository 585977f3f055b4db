// Package search talks to code-hosting search APIs and fetches the raw
// content of the files they return.
package search

import (
	"context"
	"fmt"

	"github.com/keyhunt/keyhunt/internal/types"
)

// Provider names.
const (
	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"
)

// Provider returns one page of search results for query. An empty slice means
// the provider has no more results.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, page, perPage int) ([]types.SearchItem, error)
}

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}
