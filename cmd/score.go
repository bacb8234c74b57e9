package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/matching"
	"github.com/spigell/job-matcher/internal/report"
	"github.com/spigell/job-matcher/internal/utils"
)

const maxListedIDs = 5

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single opportunity and print its breakdown",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("id", "", "opportunity id to score. Required when the source holds more than one")
}

func score(cmd *cobra.Command) {
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	engine := mustEngine(config, l)

	profile, opps, err := loadInputs(config, l)
	if err != nil {
		l.Fatal("loading records", zap.Error(err))
	}

	id := cmd.Flag("id").Value.String()
	opp, err := pickOpportunity(opps, id)
	if err != nil {
		l.Fatal("selecting an opportunity", zap.Error(err))
	}

	result, err := engine.Score(opp, profile)
	if err != nil {
		l.Fatal("scoring failed", zap.Error(err))
	}

	l.Debug("scored opportunity", logger.MatchFields(*result)...)

	if opp.Title != "" || opp.Company != "" {
		fmt.Fprintf(os.Stdout, "%s / %s\n", opp.Title, opp.Company)
	}
	if err := report.WriteBreakdown(os.Stdout, *result, engine.Weights()); err != nil {
		l.Fatal("writing the breakdown", zap.Error(err))
	}
}

func pickOpportunity(opps []matching.Opportunity, id string) (*matching.Opportunity, error) {
	if id == "" {
		if len(opps) != 1 {
			ids := make([]string, 0, len(opps))
			for _, o := range opps {
				ids = append(ids, o.ID)
			}
			return nil, fmt.Errorf("found %d opportunities, choose one with --id: %s", len(opps), utils.JoinLimited(ids, maxListedIDs))
		}
		return &opps[0], nil
	}

	for i := range opps {
		if opps[i].ID == id {
			return &opps[i], nil
		}
	}
	return nil, fmt.Errorf("there is no such opportunity id %s", id)
}
