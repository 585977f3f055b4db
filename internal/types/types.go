package types

import "time"

// Verdict records why a pipeline check ended.
type Verdict string

const (
	VerdictNoMatch      Verdict = "no_match"
	VerdictKnownInvalid Verdict = "known_invalid"
	VerdictLowEntropy   Verdict = "low_entropy"
	VerdictRejected     Verdict = "rejected"
	VerdictValid        Verdict = "valid"
)

// SearchItem is one hit returned by a code-hosting search provider. ID is the
// provider's content identifier (a blob SHA on GitHub). Content is set when the
// provider already returned the text to inspect; otherwise it is fetched from URL.
type SearchItem struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	URL      string `json:"url"`
	Path     string `json:"path,omitempty"`
	Repo     string `json:"repo,omitempty"`
	Content  string `json:"-"`
}

// Finding describes a live credential discovered in a search item.
type Finding struct {
	Key      string    `json:"key"`
	Provider string    `json:"provider,omitempty"`
	ItemID   string    `json:"item_id,omitempty"`
	URL      string    `json:"url,omitempty"`
	Path     string    `json:"path,omitempty"`
	Repo     string    `json:"repo,omitempty"`
	Entropy  float64   `json:"entropy"`
	FoundAt  time.Time `json:"found_at"`
}
