package keyhunt

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyhunt/keyhunt/internal/detectors"
	"github.com/keyhunt/keyhunt/internal/ledger"
	"github.com/keyhunt/keyhunt/internal/report"
)

var (
	flagCheckAll    bool
	flagCheckDryRun bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Run local text through the extract, entropy and validate steps",
		Long:  "check reads a file (or stdin) and runs it through the same pipeline a hunt uses. With --all it only lists every candidate and its entropy, without validating.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagCheckAll, "all", false, "list every candidate with its entropy; no validation")
	cmd.Flags().BoolVar(&flagCheckDryRun, "dry-run", false, "do not record rejected keys in the invalid-key ledger")
	cmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "entropy a key must exceed to be validated (default 4.5)")
	cmd.Flags().StringVar(&flagPattern, "pattern", "", "candidate regular expression")
	cmd.Flags().BoolVar(&flagReveal, "reveal", false, "print full keys")
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(io.LimitReader(r, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	s := resolveHuntSettings(nil)
	out := cmd.OutOrStdout()
	opts := report.PrintOptions{NoColor: noColor(), Reveal: flagReveal}

	if flagCheckAll {
		ex, err := detectors.NewExtractor(s.Pattern)
		if err != nil {
			return err
		}
		threshold := s.Threshold
		if threshold <= 0 {
			threshold = detectors.DefaultEntropyThreshold
		}
		var cands []report.Candidate
		for _, k := range ex.All(text) {
			cands = append(cands, report.Candidate{Key: k, Entropy: detectors.Entropy(k), High: detectors.HighEntropy(k, threshold)})
		}
		if flagJSON {
			for i := range cands {
				cands[i].Key = opts.MaskKey(cands[i].Key)
			}
			return report.WriteJSON(out, cands)
		}
		return report.PrintCandidates(out, cands, opts)
	}

	var invalid ledger.Set = ledger.NewMemory()
	if !flagCheckDryRun {
		ls, err := ledger.OpenDir(s.LedgerDir, s.InvalidLedger, s.CheckedLedger)
		if err != nil {
			return err
		}
		invalid = ls.Invalid
	}
	pipe, err := newPipeline(s, invalid, flagCheckDryRun)
	if err != nil {
		return err
	}
	res, err := pipe.Check(cmd.Context(), text)
	if err != nil {
		return err
	}
	if flagJSON {
		if res.Key != "" {
			res.Key = opts.MaskKey(res.Key)
		}
		if err := report.WriteJSON(out, res); err != nil {
			return err
		}
	} else {
		report.PrintCheck(out, res, opts)
	}
	if !res.Valid() {
		return errNoKey
	}
	return nil
}
