package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v30/github"
	"golang.org/x/oauth2"

	"github.com/keyhunt/keyhunt/internal/types"
)

// GitHub searches code through the REST code-search endpoint.
type GitHub struct {
	client   *github.Client
	language string
}

// GitHubOptions configures NewGitHub.
type GitHubOptions struct {
	// Token is a personal access token; empty searches anonymously.
	Token string
	// Language, when set, restricts results with a "language:" qualifier.
	Language string
	// BaseURL overrides https://api.github.com/ (tests, GHES).
	BaseURL string
	// HTTPClient carries rate limiting and timeouts; nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// NewGitHub builds a GitHub provider. The token is attached by an oauth2
// transport layered over the given client's transport.
func NewGitHub(opts GitHubOptions) (*GitHub, error) {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if opts.Token != "" {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc = &http.Client{
			Timeout: hc.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
				Base:   base,
			},
		}
	}
	client := github.NewClient(hc)
	if opts.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		client.BaseURL = u
	}
	return &GitHub{client: client, language: opts.Language}, nil
}

func (g *GitHub) Name() string { return ProviderGitHub }

// GitHub serves at most this many results per search query.
const githubMaxResults = 1000

// Search runs one page of a code search. Pages past the 1000-result window
// come back empty, the same as a query that has run out of results.
func (g *GitHub) Search(ctx context.Context, query string, page, perPage int) ([]types.SearchItem, error) {
	if page > 1 && perPage > 0 && (page-1)*perPage >= githubMaxResults {
		return nil, nil
	}
	q := BuildQuery(query, g.language)
	res, _, err := g.client.Search.Code(ctx, q, &github.SearchOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	})
	if err != nil {
		if page > 1 && isResultWindowEnd(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("github code search (page %d): %w", page, err)
	}
	items := make([]types.SearchItem, 0, len(res.CodeResults))
	for _, cr := range res.CodeResults {
		items = append(items, types.SearchItem{
			Provider: ProviderGitHub,
			ID:       cr.GetSHA(),
			URL:      cr.GetHTMLURL(),
			Path:     cr.GetPath(),
			Repo:     cr.GetRepository().GetFullName(),
		})
	}
	return items, nil
}

// isResultWindowEnd reports the 422 GitHub answers for pages beyond the
// result window. On page 1 the same status means a malformed query and stays
// an error.
func isResultWindowEnd(err error) bool {
	var er *github.ErrorResponse
	return errors.As(err, &er) && er.Response != nil &&
		er.Response.StatusCode == http.StatusUnprocessableEntity
}

// BuildQuery appends a language qualifier to query when language is set.
func BuildQuery(query, language string) string {
	query = strings.TrimSpace(query)
	if language = strings.TrimSpace(language); language == "" {
		return query
	}
	return query + " language:" + language
}
