package keyhunt

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyhunt/keyhunt/internal/detectors"
	"github.com/keyhunt/keyhunt/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "entropy <string>",
		Short: "Print the Shannon entropy of a string and whether it passes the gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold := pickFloat(0, lcfg.EntropyThresh, gcfg.EntropyThresh)
			if threshold <= 0 {
				threshold = detectors.DefaultEntropyThreshold
			}
			c := report.Candidate{
				Key:     args[0],
				Entropy: detectors.Entropy(args[0]),
				High:    detectors.HighEntropy(args[0], threshold),
			}
			if flagJSON {
				return report.WriteJSON(cmd.OutOrStdout(), c)
			}
			verdict := "below"
			if c.High {
				verdict = "above"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f (%s threshold %.2f)\n", c.Entropy, verdict, threshold)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
