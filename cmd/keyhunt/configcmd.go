package keyhunt

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keyhunt/keyhunt/internal/config"
	"github.com/keyhunt/keyhunt/internal/detectors"
)

var (
	cfgOutput    string
	cfgQuery     string
	cfgLanguage  string
	cfgProviders string
	cfgLedgerDir string
	cfgMaxPages  int
	cfgExclude   string
	cfgForce     bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .keyhunt.yml with the default settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".keyhunt.yml", "output file path")
	initCmd.Flags().StringVar(&cfgQuery, "query", defaultQuery, "search query")
	initCmd.Flags().StringVar(&cfgLanguage, "language", defaultLanguage, "GitHub language qualifier")
	initCmd.Flags().StringVar(&cfgProviders, "providers", defaultProviders, "comma-separated providers")
	initCmd.Flags().StringVar(&cfgLedgerDir, "ledger-dir", ".", "ledger directory")
	initCmd.Flags().IntVar(&cfgMaxPages, "max-pages", 0, "page limit (0 = none)")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated path globs to skip")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}
	gh, raw, gl, oa := config.FileConfig{}.Intervals()
	fc := config.FileConfig{
		Query:           strPtr(cfgQuery),
		Language:        strPtr(cfgLanguage),
		Providers:       pickList(cfgProviders, nil, nil),
		PerPage:         intPtr(50),
		MaxPages:        intPtr(cfgMaxPages),
		EntropyThresh:   floatPtr(detectors.DefaultEntropyThreshold),
		Exclude:         optStrPtr(cfgExclude),
		DefaultExcludes: boolPtr(true),
		LedgerDir:       strPtr(cfgLedgerDir),
		Audit:           boolPtr(true),
		RateLimits: &config.RateLimits{
			GitHub: strPtr(gh.String()),
			Raw:    strPtr(raw.String()),
			GitLab: strPtr(gl.String()),
			OpenAI: strPtr(oa.String()),
		},
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}
