package keyhunt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keyhunt/keyhunt/internal/config"
	"github.com/keyhunt/keyhunt/internal/logging"
)

var (
	flagConfig    string
	flagLedgerDir string
	flagLogLevel  string
	flagLogFile   string
	flagLogJSON   bool
	flagJSON      bool
	flagNoColor   bool

	version = "0.1.0"

	// populated by the root pre-run hook
	lcfg, gcfg config.FileConfig
	logCloser  io.Closer
)

var logger = zerolog.Nop()

// Commands that ran cleanly but came up empty return one of these; both map
// to exit status 1.
var (
	errNoKey       = errors.New("no live key found")
	errNotRecorded = errors.New("id not recorded")
)

// rootCmd is the base Cobra command for the keyhunt CLI.
var rootCmd = &cobra.Command{
	Use:               "keyhunt",
	Short:             "Hunt public code search for live OpenAI keys",
	Long:              "keyhunt pages through GitHub (and optionally GitLab) search results, extracts sk- keys, drops low-entropy placeholders, validates the rest against the OpenAI API and remembers what it has already checked.",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the keyhunt CLI. It should be called by the main package.
// Exit status is 0 when a live key was found, 1 when none was, 2 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errNoKey) || errors.Is(err, errNotRecorded) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./.keyhunt.yml, then $XDG_CONFIG_HOME/keyhunt/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagLedgerDir, "ledger-dir", "", "directory holding the ledgers and run history (default .)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default info)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this rotating file")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "log as JSON instead of console text")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}

// setup loads config files (CLI > local > global) and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	lcfg, gcfg = config.FileConfig{}, config.FileConfig{}
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		lcfg = c
	} else {
		if c, err := config.LoadGlobal(); err == nil {
			gcfg = c
		}
		if wd, err := os.Getwd(); err == nil {
			if c, err := config.LoadLocal(wd); err == nil {
				lcfg = c
			}
		}
	}

	l, closer, err := logging.New(logging.Config{
		Level:   pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel),
		JSON:    flagLogJSON,
		NoColor: noColor(),
		File:    pickString(flagLogFile, lcfg.LogFile, gcfg.LogFile),
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger, logCloser = l, closer
	return nil
}

func noColor() bool {
	return pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
}

func ledgerDir() string {
	if d := pickString(flagLedgerDir, lcfg.LedgerDir, gcfg.LedgerDir); d != "" {
		return d
	}
	return "."
}
