package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/keyhunt/keyhunt/internal/ledger"
	"github.com/keyhunt/keyhunt/internal/search"
	"github.com/keyhunt/keyhunt/internal/types"
)

const defaultPerPage = 50

// Config controls paging and result filtering for a hunt.
type Config struct {
	Query string
	// PerPage is the provider page size (default 50).
	PerPage int
	// StartPage is the first page requested (default 1).
	StartPage int
	// MaxPages stops the hunt after this many pages; 0 means until the
	// providers return an empty page.
	MaxPages int
	// ExcludeGlobs skips results whose path matches (doublestar syntax).
	ExcludeGlobs    []string
	DefaultExcludes bool
	// DryRun scans without appending to either ledger; Run applies it to the
	// Pipeline as well.
	DryRun bool
	// Progress, when set, is called after each result is handled.
	Progress func(item types.SearchItem, res CheckResult)
}

// Fetcher returns the text behind a search result. A partial body comes back
// with search.ErrTruncated; it is scanned but the result is not recorded as
// checked.
type Fetcher interface {
	Fetch(ctx context.Context, item types.SearchItem) (string, error)
}

// Summary reports what a hunt did and, on success, what it found.
type Summary struct {
	Finding      *types.Finding
	Pages        int
	ItemsSeen    int
	ItemsSkipped int
	Excluded     int
	FilesScanned int
	Truncated    int
	KeysChecked  int
	Verdicts     map[types.Verdict]int
	Exhausted    bool
	Duration     time.Duration
}

// Driver pages through providers and feeds each unseen result to a Pipeline.
type Driver struct {
	Config    Config
	Providers []search.Provider
	Fetcher   Fetcher
	Pipeline  *Pipeline
	Checked   ledger.Set
	Log       zerolog.Logger
}

// Run hunts until a live secret is found, every provider returns an empty
// page, MaxPages is reached, ctx is cancelled, or a call fails. Failures are
// returned together with the partial summary.
func (d *Driver) Run(ctx context.Context) (sum Summary, err error) {
	started := time.Now()
	sum.Verdicts = map[types.Verdict]int{}
	defer func() { sum.Duration = time.Since(started) }()

	if len(d.Providers) == 0 {
		return sum, fmt.Errorf("no search providers configured")
	}
	if d.Config.DryRun && d.Pipeline != nil {
		d.Pipeline.DryRun = true
	}
	perPage := d.Config.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := d.Config.StartPage
	if page <= 0 {
		page = 1
	}
	globs := expandGlobs(d.Config.ExcludeGlobs)

	for ; ; page++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if d.Config.MaxPages > 0 && sum.Pages >= d.Config.MaxPages {
			d.Log.Info().Int("pages", sum.Pages).Msg("page limit reached")
			return sum, nil
		}
		sum.Pages++

		hits := 0
		for _, p := range d.Providers {
			d.Log.Info().Str("provider", p.Name()).Int("page", page).Msg("searching")
			items, err := p.Search(ctx, d.Config.Query, page, perPage)
			if err != nil {
				return sum, err
			}
			hits += len(items)
			for _, item := range items {
				f, err := d.scanItem(ctx, item, globs, &sum)
				if err != nil {
					return sum, err
				}
				if f != nil {
					sum.Finding = f
					return sum, nil
				}
			}
		}
		if hits == 0 {
			sum.Exhausted = true
			d.Log.Info().Int("page", page).Msg("no more results")
			return sum, nil
		}
	}
}

func (d *Driver) scanItem(ctx context.Context, item types.SearchItem, globs []string, sum *Summary) (*types.Finding, error) {
	sum.ItemsSeen++
	if item.ID != "" && d.Checked != nil && d.Checked.Contains(item.ID) {
		sum.ItemsSkipped++
		return nil, nil
	}
	if matchAnyGlob(item.Path, globs) || (d.Config.DefaultExcludes && isDefaultExcluded(item.Path)) {
		sum.Excluded++
		d.Log.Debug().Str("path", item.Path).Msg("excluded")
		return nil, nil
	}

	content, err := d.Fetcher.Fetch(ctx, item)
	truncated := errors.Is(err, search.ErrTruncated)
	if err != nil && !truncated {
		return nil, err
	}
	sum.FilesScanned++
	if truncated {
		sum.Truncated++
		d.Log.Warn().Str("url", item.URL).Msg("content truncated; result will be rescanned on the next run")
	}

	res, err := d.Pipeline.Check(ctx, content)
	if err != nil {
		return nil, err
	}
	sum.Verdicts[res.Verdict]++
	if res.Verdict != types.VerdictNoMatch {
		sum.KeysChecked++
	}
	if d.Config.Progress != nil {
		d.Config.Progress(item, res)
	}
	if res.Valid() {
		d.Log.Info().Str("url", item.URL).Str("key", Mask(res.Key)).Msg("validated successfully")
		return &types.Finding{
			Key:      res.Key,
			Provider: item.Provider,
			ItemID:   item.ID,
			URL:      item.URL,
			Path:     item.Path,
			Repo:     item.Repo,
			Entropy:  res.Entropy,
			FoundAt:  time.Now().UTC(),
		}, nil
	}

	if item.ID != "" && d.Checked != nil && !d.Config.DryRun && !truncated {
		if err := d.Checked.Add(item.ID); err != nil {
			return nil, fmt.Errorf("record checked item: %w", err)
		}
	}
	return nil, nil
}
