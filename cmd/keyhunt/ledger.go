package keyhunt

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyhunt/keyhunt/internal/ledger"
	"github.com/keyhunt/keyhunt/internal/report"
)

var flagLedgerKind string

func init() {
	ledgerCmd := &cobra.Command{Use: "ledger", Short: "Inspect and extend the dedup ledgers"}
	rootCmd.AddCommand(ledgerCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show ledger sizes",
		Args:  cobra.NoArgs,
		RunE:  runLedgerStats,
	}
	hasCmd := &cobra.Command{
		Use:   "has <id>",
		Short: "Report whether an id is recorded (exit 1 when it is not)",
		Args:  cobra.ExactArgs(1),
		RunE:  runLedgerHas,
	}
	addCmd := &cobra.Command{
		Use:   "add <id>...",
		Short: "Record ids so future hunts skip them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLedgerAdd,
	}
	for _, c := range []*cobra.Command{hasCmd, addCmd} {
		c.Flags().StringVar(&flagLedgerKind, "kind", "invalid", "ledger: invalid (keys) | checked (content ids)")
	}
	ledgerCmd.AddCommand(statsCmd, hasCmd, addCmd)
}

func openLedgerFiles() (inv, chk *ledger.File, err error) {
	return ledger.OpenFiles(ledgerDir(),
		pickString("", lcfg.InvalidLedger, gcfg.InvalidLedger),
		pickString("", lcfg.CheckedLedger, gcfg.CheckedLedger))
}

func pickLedger(inv, chk *ledger.File) (*ledger.File, error) {
	switch strings.ToLower(flagLedgerKind) {
	case "invalid", "":
		return inv, nil
	case "checked":
		return chk, nil
	default:
		return nil, fmt.Errorf("unknown ledger kind %q (want invalid or checked)", flagLedgerKind)
	}
}

func runLedgerStats(cmd *cobra.Command, _ []string) error {
	inv, chk, err := openLedgerFiles()
	if err != nil {
		return err
	}
	stats := []report.LedgerStat{
		{Name: "invalid", Path: inv.Path(), Entries: inv.Len()},
		{Name: "checked", Path: chk.Path(), Entries: chk.Len()},
	}
	if flagJSON {
		return report.WriteJSON(cmd.OutOrStdout(), stats)
	}
	return report.PrintLedgerStats(cmd.OutOrStdout(), stats)
}

func runLedgerHas(cmd *cobra.Command, args []string) error {
	inv, chk, err := openLedgerFiles()
	if err != nil {
		return err
	}
	l, err := pickLedger(inv, chk)
	if err != nil {
		return err
	}
	if l.Contains(strings.TrimSpace(args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "yes")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "no")
	return errNotRecorded
}

func runLedgerAdd(cmd *cobra.Command, args []string) error {
	inv, chk, err := openLedgerFiles()
	if err != nil {
		return err
	}
	l, err := pickLedger(inv, chk)
	if err != nil {
		return err
	}
	before := l.Len()
	for _, id := range args {
		if err := l.Add(id); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d new id(s) in %s\n", l.Len()-before, l.Path())
	return nil
}
