package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/matching"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Validate and print the active weight vector",
	Run: func(_ *cobra.Command, _ []string) {
		l := newLogger()

		config, err := getConfig()
		if err != nil {
			l.Fatal("getting a config", zap.Error(err))
		}

		engine := mustEngine(config, l)
		w := engine.Weights()

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CRITERION\tWEIGHT")
		for _, c := range matching.Criteria {
			fmt.Fprintf(tw, "%s\t%.4f\n", c, w.Get(c))
		}
		fmt.Fprintf(tw, "total\t%.4f\n", w.Sum())
		if err := tw.Flush(); err != nil {
			l.Fatal("writing weights", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}
