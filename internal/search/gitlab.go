package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/keyhunt/keyhunt/internal/types"
)

const defaultGitLabURL = "https://gitlab.com"

// GitLab searches public projects by name and description. The API returns no
// file contents, so each item carries the project's name and description as
// inline text to inspect.
type GitLab struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGitLab returns a GitLab provider. An empty baseURL selects gitlab.com.
func NewGitLab(baseURL, token string, client *http.Client) *GitLab {
	if baseURL == "" {
		baseURL = defaultGitLabURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GitLab{baseURL: strings.TrimSuffix(baseURL, "/"), token: token, client: client}
}

func (g *GitLab) Name() string { return ProviderGitLab }

type gitlabProject struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	Description       string `json:"description"`
	WebURL            string `json:"web_url"`
	LastActivityAt    string `json:"last_activity_at"`
}

func (g *GitLab) Search(ctx context.Context, query string, page, perPage int) ([]types.SearchItem, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	u := g.baseURL + "/api/v4/projects?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gitlab project search (page %d): %w", page, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}
	var projects []gitlabProject
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("decode gitlab projects: %w", err)
	}
	items := make([]types.SearchItem, 0, len(projects))
	for _, p := range projects {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		items = append(items, types.SearchItem{
			Provider: ProviderGitLab,
			ID:       gitlabItemID(p),
			URL:      p.WebURL,
			Repo:     p.PathWithNamespace,
			Content:  fmt.Sprintf("GitLab Repo: %s - %s", name, p.Description),
		})
	}
	return items, nil
}

// gitlabItemID identifies a project revision: the same project is rescanned
// once it shows new activity.
func gitlabItemID(p gitlabProject) string {
	sum := xxhash.Sum64String(strconv.FormatInt(p.ID, 10) + "|" + p.LastActivityAt)
	return fmt.Sprintf("gitlab-%016x", sum)
}
