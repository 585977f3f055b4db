package keyhunt

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyhunt/keyhunt/internal/audit"
	"github.com/keyhunt/keyhunt/internal/config"
	"github.com/keyhunt/keyhunt/internal/detectors"
	"github.com/keyhunt/keyhunt/internal/engine"
	"github.com/keyhunt/keyhunt/internal/ledger"
	"github.com/keyhunt/keyhunt/internal/ratelimit"
	"github.com/keyhunt/keyhunt/internal/report"
	"github.com/keyhunt/keyhunt/internal/search"
	"github.com/keyhunt/keyhunt/internal/types"
	"github.com/keyhunt/keyhunt/internal/validate"
)

const (
	defaultQuery     = "sk-proj"
	defaultLanguage  = "Python"
	httpTimeout      = 30 * time.Second
	maxFetchBytes    = 1 << 20
	defaultProviders = search.ProviderGitHub
)

var (
	flagLanguage      string
	flagProviders     string
	flagPerPage       int
	flagMaxPages      int
	flagStartPage     int
	flagThreshold     float64
	flagPattern       string
	flagExclude       string
	flagNoDefaultExcl bool
	flagDryRun        bool
	flagNoLedger      bool
	flagReveal        bool
	flagNoAudit       bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "hunt [query]",
		Short: "Search code hosts until a live key is found",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHunt,
		Example: `
# Default search (sk-proj in Python files on GitHub)
GITHUB_TOKEN=... keyhunt hunt

# Both providers, first five pages, skip test fixtures
keyhunt hunt sk- --providers github,gitlab --max-pages 5 --exclude '**/tests/**'
`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagLanguage, "language", "", "restrict GitHub results to this language (default Python)")
	cmd.Flags().StringVar(&flagProviders, "providers", "", "comma-separated providers: github,gitlab (default github)")
	cmd.Flags().IntVar(&flagPerPage, "per-page", 0, "results per page (default 50)")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "stop after this many pages (0 = until results run out)")
	cmd.Flags().IntVar(&flagStartPage, "start-page", 1, "first page to request")
	cmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "entropy a key must exceed to be validated (default 4.5)")
	cmd.Flags().StringVar(&flagPattern, "pattern", "", "candidate regular expression (default sk-[A-Za-z0-9_-]{40,})")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated path globs to skip")
	cmd.Flags().BoolVar(&flagNoDefaultExcl, "no-default-excludes", false, "do not skip vendored and generated paths")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "search and validate without writing to the ledgers")
	cmd.Flags().BoolVar(&flagNoLedger, "no-ledger", false, "use empty in-memory ledgers")
	cmd.Flags().BoolVar(&flagReveal, "reveal", false, "print the full key instead of a masked one")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append this run to the history log")
}

// huntSettings is the merged view of flags, config files and environment.
type huntSettings struct {
	Query           string
	Language        string
	Providers       []string
	PerPage         int
	MaxPages        int
	Threshold       float64
	Pattern         string
	Exclude         []string
	DefaultExcludes bool
	LedgerDir       string
	InvalidLedger   string
	CheckedLedger   string
	Audit           bool
	GitHubToken     string
	GitLabToken     string
	GitHubAPIURL    string
	GitLabURL       string
	OpenAIBaseURL   string
	GitHubRate      time.Duration
	RawRate         time.Duration
	GitLabRate      time.Duration
	OpenAIRate      time.Duration
}

func resolveHuntSettings(args []string) huntSettings {
	cliQuery := ""
	if len(args) > 0 {
		cliQuery = args[0]
	}
	s := huntSettings{
		Query:           pickString(cliQuery, lcfg.Query, gcfg.Query),
		Language:        pickString(flagLanguage, lcfg.Language, gcfg.Language),
		Providers:       pickList(flagProviders, lcfg.Providers, gcfg.Providers),
		PerPage:         pickInt(flagPerPage, lcfg.PerPage, gcfg.PerPage),
		MaxPages:        pickInt(flagMaxPages, lcfg.MaxPages, gcfg.MaxPages),
		Threshold:       pickFloat(flagThreshold, lcfg.EntropyThresh, gcfg.EntropyThresh),
		Pattern:         pickString(flagPattern, lcfg.Pattern, gcfg.Pattern),
		Exclude:         engine.ParseGlobs(pickString(flagExclude, lcfg.Exclude, gcfg.Exclude)),
		DefaultExcludes: true,
		LedgerDir:       ledgerDir(),
		InvalidLedger:   pickString("", lcfg.InvalidLedger, gcfg.InvalidLedger),
		CheckedLedger:   pickString("", lcfg.CheckedLedger, gcfg.CheckedLedger),
		Audit:           true,
		GitHubAPIURL:    pickString("", lcfg.GitHubAPIURL, gcfg.GitHubAPIURL),
		GitLabURL:       pickString("", lcfg.GitLabURL, gcfg.GitLabURL),
		OpenAIBaseURL:   pickString("", lcfg.OpenAIBaseURL, gcfg.OpenAIBaseURL),
	}
	if s.Query == "" {
		s.Query = defaultQuery
	}
	if s.Language == "" {
		s.Language = defaultLanguage
	}
	if len(s.Providers) == 0 {
		s.Providers = []string{defaultProviders}
	}
	if flagNoDefaultExcl {
		s.DefaultExcludes = false
	} else if v := firstBool(lcfg.DefaultExcludes, gcfg.DefaultExcludes); v != nil {
		s.DefaultExcludes = *v
	}
	if flagNoAudit {
		s.Audit = false
	} else if v := firstBool(lcfg.Audit, gcfg.Audit); v != nil {
		s.Audit = *v
	}

	// tokens: environment beats local beats global
	s.GitHubToken = lcfg.GitHubTokenValue()
	if s.GitHubToken == "" {
		s.GitHubToken = gcfg.GitHubTokenValue()
	}
	s.GitLabToken = lcfg.GitLabTokenValue()
	if s.GitLabToken == "" {
		s.GitLabToken = gcfg.GitLabTokenValue()
	}

	merged := config.FileConfig{RateLimits: mergeRateLimits(lcfg.RateLimits, gcfg.RateLimits)}
	s.GitHubRate, s.RawRate, s.GitLabRate, s.OpenAIRate = merged.Intervals()
	return s
}

func firstBool(vals ...*bool) *bool {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func buildProviders(s huntSettings) ([]search.Provider, error) {
	var out []search.Provider
	for _, name := range s.Providers {
		switch strings.ToLower(name) {
		case search.ProviderGitHub:
			if s.GitHubToken == "" {
				logger.Warn().Msg("GITHUB_TOKEN not set; code search requires authentication and will likely fail")
			}
			gh, err := search.NewGitHub(search.GitHubOptions{
				Token:      s.GitHubToken,
				Language:   s.Language,
				BaseURL:    s.GitHubAPIURL,
				HTTPClient: ratelimit.Client(s.GitHubRate, httpTimeout),
			})
			if err != nil {
				return nil, err
			}
			out = append(out, gh)
		case search.ProviderGitLab:
			out = append(out, search.NewGitLab(s.GitLabURL, s.GitLabToken, ratelimit.Client(s.GitLabRate, httpTimeout)))
		default:
			return nil, fmt.Errorf("unknown provider %q (want github or gitlab)", name)
		}
	}
	return out, nil
}

func openLedgers(s huntSettings) (ledger.Ledgers, error) {
	if flagNoLedger {
		return ledger.InMemory(), nil
	}
	return ledger.OpenDir(s.LedgerDir, s.InvalidLedger, s.CheckedLedger)
}

func newPipeline(s huntSettings, invalid ledger.Set, dryRun bool) (*engine.Pipeline, error) {
	ex, err := detectors.NewExtractor(s.Pattern)
	if err != nil {
		return nil, err
	}
	v := &validate.OpenAI{
		BaseURL:    s.OpenAIBaseURL,
		HTTPClient: ratelimit.Client(s.OpenAIRate, httpTimeout),
	}
	p := engine.NewPipeline(v, invalid, s.Threshold)
	p.Extractor = ex
	p.DryRun = dryRun
	p.Log = logger
	return p, nil
}

func runHunt(cmd *cobra.Command, args []string) error {
	s := resolveHuntSettings(args)
	ls, err := openLedgers(s)
	if err != nil {
		return err
	}
	pipe, err := newPipeline(s, ls.Invalid, flagDryRun)
	if err != nil {
		return err
	}
	providers, err := buildProviders(s)
	if err != nil {
		return err
	}

	d := &engine.Driver{
		Config: engine.Config{
			Query:           s.Query,
			PerPage:         s.PerPage,
			StartPage:       flagStartPage,
			MaxPages:        s.MaxPages,
			ExcludeGlobs:    s.Exclude,
			DefaultExcludes: s.DefaultExcludes,
			DryRun:          flagDryRun,
			Progress: func(item types.SearchItem, res engine.CheckResult) {
				logger.Debug().Str("url", item.URL).Str("verdict", string(res.Verdict)).Msg("checked")
			},
		},
		Providers: providers,
		Fetcher:   &search.Fetcher{MaxBytes: maxFetchBytes, Client: ratelimit.Client(s.RawRate, httpTimeout)},
		Pipeline:  pipe,
		Checked:   ls.Checked,
		Log:       logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Str("query", s.Query).Strs("providers", s.Providers).Str("ledger_dir", s.LedgerDir).Msg("hunt started")
	sum, runErr := d.Run(ctx)

	if s.Audit && !flagDryRun && !flagNoLedger {
		rec := audit.CreateRunRecord(s.Query, s.Providers, sum, runErr)
		if err := audit.NewAuditLog(s.LedgerDir).LogRun(rec); err != nil {
			logger.Warn().Err(err).Msg("could not write run history")
		}
	}

	out := cmd.OutOrStdout()
	opts := report.PrintOptions{NoColor: noColor(), Reveal: flagReveal}
	if flagJSON {
		if err := report.WriteJSON(out, report.NewHuntOutput(sum, flagReveal)); err != nil {
			return err
		}
	} else {
		report.PrintFinding(out, sum.Finding, opts)
		report.PrintSummary(out, sum, opts)
	}

	if runErr != nil {
		return runErr
	}
	if sum.Finding == nil {
		return errNoKey
	}
	return nil
}
