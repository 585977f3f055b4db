package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/keyhunt/keyhunt/internal/audit"
	"github.com/keyhunt/keyhunt/internal/engine"
	"github.com/keyhunt/keyhunt/internal/types"
)

type PrintOptions struct {
	NoColor bool
	// Reveal prints keys in full instead of masked.
	Reveal bool
}

func (o PrintOptions) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if o.NoColor {
		c.DisableColor()
	}
	return c
}

// MaskKey returns k as it should be displayed under these options.
func (o PrintOptions) MaskKey(k string) string {
	if o.Reveal {
		return k
	}
	return engine.Mask(k)
}

// PrintFinding writes the live key and where it was found.
func PrintFinding(w io.Writer, f *types.Finding, opts PrintOptions) {
	if f == nil {
		opts.paint(color.FgYellow).Fprintln(w, "No live key found")
		return
	}
	opts.paint(color.FgGreen, color.Bold).Fprintln(w, "Live key found")
	fmt.Fprintf(w, "  key:      %s\n", opts.paint(color.FgRed).Sprint(opts.MaskKey(f.Key)))
	fmt.Fprintf(w, "  entropy:  %.2f\n", f.Entropy)
	fmt.Fprintf(w, "  provider: %s\n", f.Provider)
	if f.Repo != "" {
		fmt.Fprintf(w, "  repo:     %s\n", f.Repo)
	}
	if f.Path != "" {
		fmt.Fprintf(w, "  path:     %s\n", f.Path)
	}
	fmt.Fprintf(w, "  url:      %s\n", opts.paint(color.FgCyan).Sprint(f.URL))
}

// PrintSummary writes the run counters.
func PrintSummary(w io.Writer, sum engine.Summary, opts PrintOptions) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Pages: %d  Results: %d  Skipped: %d  Excluded: %d\n", sum.Pages, sum.ItemsSeen, sum.ItemsSkipped, sum.Excluded)
	fmt.Fprintf(w, "Files scanned: %d  Keys checked: %d\n", sum.FilesScanned, sum.KeysChecked)
	if len(sum.Verdicts) > 0 {
		verdicts := make([]string, 0, len(sum.Verdicts))
		for v := range sum.Verdicts {
			verdicts = append(verdicts, string(v))
		}
		sort.Strings(verdicts)
		fmt.Fprint(w, "Verdicts:")
		for _, v := range verdicts {
			fmt.Fprintf(w, " %s=%d", v, sum.Verdicts[types.Verdict(v)])
		}
		fmt.Fprintln(w)
	}
	if sum.Truncated > 0 {
		opts.paint(color.FgYellow).Fprintf(w, "Truncated files (not recorded): %d\n", sum.Truncated)
	}
	if sum.Exhausted {
		opts.paint(color.FgYellow).Fprintln(w, "Search results exhausted")
	}
	if sum.Duration > 0 {
		fmt.Fprintf(w, "Duration: %.2fs\n", sum.Duration.Seconds())
	}
}

// PrintCheck writes the verdict for one piece of local text.
func PrintCheck(w io.Writer, res engine.CheckResult, opts PrintOptions) {
	if res.Verdict == types.VerdictNoMatch {
		fmt.Fprintln(w, "No candidate found")
		return
	}
	c := opts.paint(color.FgYellow)
	if res.Valid() {
		c = opts.paint(color.FgGreen, color.Bold)
	}
	fmt.Fprintf(w, "%s  entropy=%.2f  %s\n", opts.MaskKey(res.Key), res.Entropy, c.Sprint(res.Verdict))
}

// Candidate is one extracted string and its entropy.
type Candidate struct {
	Key     string  `json:"key"`
	Entropy float64 `json:"entropy"`
	High    bool    `json:"high_entropy"`
}

// PrintCandidates lists every extracted candidate in a table.
func PrintCandidates(w io.Writer, cands []Candidate, opts PrintOptions) error {
	if len(cands) == 0 {
		fmt.Fprintln(w, "No candidate found")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Key", "Entropy", "Passes gate")
	for _, c := range cands {
		pass := "no"
		if c.High {
			pass = "yes"
		}
		if err := table.Append([]string{opts.MaskKey(c.Key), fmt.Sprintf("%.3f", c.Entropy), pass}); err != nil {
			return err
		}
	}
	return table.Render()
}

// LedgerStat describes one ledger file.
type LedgerStat struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// PrintLedgerStats renders ledger sizes as a table.
func PrintLedgerStats(w io.Writer, stats []LedgerStat) error {
	table := tablewriter.NewWriter(w)
	table.Header("Ledger", "Entries", "Path")
	for _, s := range stats {
		if err := table.Append([]string{s.Name, fmt.Sprint(s.Entries), s.Path}); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintHistory renders past runs, newest first.
func PrintHistory(w io.Writer, recs []audit.RunRecord, opts PrintOptions) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("When", "Query", "Pages", "Files", "Keys", "Result")
	for _, r := range recs {
		result := "none"
		switch {
		case r.Error != "":
			result = "error: " + r.Error
		case r.Found:
			result = r.Key + " " + r.URL
		case r.Exhausted:
			result = "exhausted"
		}
		row := []string{
			r.Timestamp.Local().Format(time.DateTime),
			r.Query,
			fmt.Sprint(r.Pages),
			fmt.Sprint(r.FilesScanned),
			fmt.Sprint(r.KeysChecked),
			result,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// HuntOutput is the --json shape of a hunt.
type HuntOutput struct {
	Found        bool                  `json:"found"`
	Finding      *types.Finding        `json:"finding,omitempty"`
	Pages        int                   `json:"pages"`
	ItemsSeen    int                   `json:"items_seen"`
	ItemsSkipped int                   `json:"items_skipped"`
	Excluded     int                   `json:"excluded"`
	FilesScanned int                   `json:"files_scanned"`
	Truncated    int                   `json:"truncated,omitempty"`
	KeysChecked  int                   `json:"keys_checked"`
	Verdicts     map[types.Verdict]int `json:"verdicts"`
	Exhausted    bool                  `json:"exhausted"`
	DurationMS   int64                 `json:"duration_ms"`
}

// NewHuntOutput converts a summary. The key is masked unless reveal is set.
func NewHuntOutput(sum engine.Summary, reveal bool) HuntOutput {
	out := HuntOutput{
		Found:        sum.Finding != nil,
		Pages:        sum.Pages,
		ItemsSeen:    sum.ItemsSeen,
		ItemsSkipped: sum.ItemsSkipped,
		Excluded:     sum.Excluded,
		FilesScanned: sum.FilesScanned,
		Truncated:    sum.Truncated,
		KeysChecked:  sum.KeysChecked,
		Verdicts:     sum.Verdicts,
		Exhausted:    sum.Exhausted,
		DurationMS:   sum.Duration.Milliseconds(),
	}
	if sum.Finding != nil {
		f := *sum.Finding
		if !reveal {
			f.Key = engine.Mask(f.Key)
		}
		out.Finding = &f
	}
	return out
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
