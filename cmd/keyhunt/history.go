package keyhunt

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/keyhunt/keyhunt/internal/audit"
	"github.com/keyhunt/keyhunt/internal/report"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past hunts, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most this many runs (0 = all)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	recs, err := audit.NewAuditLog(ledgerDir()).LoadHistory()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if flagHistoryLimit > 0 && len(recs) > flagHistoryLimit {
		recs = recs[:flagHistoryLimit]
	}
	if flagJSON {
		if recs == nil {
			recs = []audit.RunRecord{}
		}
		return report.WriteJSON(cmd.OutOrStdout(), recs)
	}
	return report.PrintHistory(cmd.OutOrStdout(), recs, report.PrintOptions{NoColor: noColor()})
}
