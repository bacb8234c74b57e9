package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/filtering"
	"github.com/spigell/job-matcher/internal/headhunter"
	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/matching"
	"github.com/spigell/job-matcher/internal/records"
	"github.com/spigell/job-matcher/internal/report"
	"github.com/spigell/job-matcher/internal/utils"
)

const (
	PromptShow                = "Show ranked opportunities"
	PromptInspect             = "Inspect an opportunity"
	PromptReportByCompanies   = "Report by companies"
	PromptResultsToFile       = "Dump results to file"
	PromptAppendToExcludeFile = "Append all opportunities to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"

	maxInspectLabel = 80
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank opportunities for a profile",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Int("min-score", matching.DefaultMinScore, "drop opportunities scoring below this threshold (0..100)")
	matchCmd.Flags().StringP("format", "f", string(report.FormatTable), "output format: table or json")
	matchCmd.Flags().BoolP("interactive", "i", false, "browse the results interactively")
	matchCmd.Flags().Bool("dump", false, "dump the results to a temporary json file")
	matchCmd.Flags().Bool("concurrent", false, "score opportunities with a worker pool")

	viper.BindPFlag("min-score", matchCmd.Flags().Lookup("min-score"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	l := logger.WithRun(newLogger(), runID)

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Info("starting the job-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	format, err := report.ParseFormat(cmd.Flag("format").Value.String())
	if err != nil {
		l.Fatal("parsing output format", zap.Error(err))
	}

	engine := mustEngine(config, l)
	l.Debug("using weights", zap.String("weights", describeWeights(engine.Weights())))

	profile, opps, err := loadInputs(config, l)
	if err != nil {
		l.Fatal("loading records", zap.Error(err))
	}

	if len(opps) == 0 {
		l.Info("exiting", zap.String("reason", "no opportunities found"))
		return
	}

	l.Info("scoring opportunities",
		zap.String(logger.FieldProfileID, profile.ID),
		zap.Int("count", len(opps)),
	)

	var results []matching.MatchResult
	if concurrent, _ := cmd.Flags().GetBool("concurrent"); concurrent {
		results, err = engine.MatchAllConcurrent(ctx, opps, profile, config.Workers)
	} else {
		results, err = engine.MatchAll(opps, profile)
	}
	if err != nil {
		l.Fatal("scoring failed", zap.Error(err))
	}

	for _, r := range results {
		l.Debug("scored opportunity", logger.MatchFields(r)...)
	}

	candidates, err := applyFilters(ctx, config, l, filtering.NewCandidates(opps, results))
	if err != nil {
		l.Fatal("filtering failed", zap.Error(err))
	}

	if candidates.Len() == 0 {
		l.Info("exiting", zap.String("reason", "no opportunities left after filters"))
		return
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		if err := dumpResults(candidates, l); err != nil {
			l.Fatal("dumping results", zap.Error(err))
		}
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		if err := report.Write(os.Stdout, format, candidates); err != nil {
			l.Fatal("writing the report", zap.Error(err))
		}
		return
	}

	if err := browse(engine.Weights(), config, candidates, l); err != nil && !errors.Is(err, errExit) {
		l.Fatal("exiting", zap.Error(err))
	}
}

// loadInputs reads the profile and every configured opportunity source.
func loadInputs(config *Config, l *zap.Logger) (*matching.Profile, []matching.Opportunity, error) {
	if strings.TrimSpace(config.Profile) == "" {
		return nil, nil, errors.New("profile file is required (set --profile or the 'profile' key)")
	}

	profile, err := records.LoadProfile(config.Profile)
	if err != nil {
		return nil, nil, fmt.Errorf("profile: %w", err)
	}

	var opps []matching.Opportunity
	if config.Opportunities != "" {
		loaded, err := records.LoadOpportunities(config.Opportunities)
		if err != nil {
			return nil, nil, fmt.Errorf("opportunities: %w", err)
		}
		l.Info("loaded opportunities", zap.String("path", config.Opportunities), zap.Int("count", len(loaded)))
		opps = append(opps, loaded...)
	}

	if config.VacanciesFile != "" {
		vacancies, err := headhunter.LoadVacancies(config.VacanciesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("vacancies: %w", err)
		}
		active := vacancies.Active()
		l.Info("loaded hh.ru vacancies",
			zap.String("path", config.VacanciesFile),
			zap.Int("count", vacancies.Len()),
			zap.Int("active", active.Len()),
		)
		opps = append(opps, active.ToOpportunities()...)
	}

	if config.Opportunities == "" && config.VacanciesFile == "" {
		return nil, nil, errors.New("no opportunity source configured (set --opportunities or --vacancies-file)")
	}

	return profile, opps, nil
}

func applyFilters(ctx context.Context, config *Config, l *zap.Logger, c *filtering.Candidates) (*filtering.Candidates, error) {
	cfg := &filtering.Config{
		MinScore:    config.MinScore,
		ExcludeFile: config.ExcludeFile,
		Companies:   config.Exclude.Companies,
		RedFlags:    config.Exclude.RedFlags,
	}

	steps := filtering.Default()
	if cfg.MinScore == 0 {
		filtering.DisableByName(steps, "min_score", "threshold is zero")
	}

	filtered, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: l}, steps, c)
	if err != nil {
		return nil, err
	}

	for _, status := range filtering.Describe(steps) {
		l.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filtered, nil
}

func dumpResults(c *filtering.Candidates, l *zap.Logger) error {
	filename, err := report.DumpToTmpFile(c)
	if err != nil {
		return fmt.Errorf("dump results to file: %w", err)
	}
	l.Info("dumping result to file", zap.String("filename", filename))
	return nil
}

func browse(weights matching.Weights, config *Config, c *filtering.Candidates, l *zap.Logger) error {
	for {
		items := []string{PromptShow, PromptInspect, PromptReportByCompanies, PromptResultsToFile}
		if config.ExcludeFile != "" && c.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "Proceed?",
			Items: append(items, PromptExit),
		}

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		l.Info("current list of opportunities", zap.Int("count", c.Len()))

		if err := handleAction(action, weights, config, c, l); err != nil {
			return err
		}
	}
}

func handleAction(action string, weights matching.Weights, config *Config, c *filtering.Candidates, l *zap.Logger) error {
	switch action {
	case PromptShow:
		return report.WriteTable(os.Stdout, c)
	case PromptInspect:
		return inspect(weights, c)
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(report.ByCompany(c), "", "  ")
		l.Info(string(pretty), zap.Int("opportunities count", c.Len()))
		return nil
	case PromptResultsToFile:
		return dumpResults(c, l)
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(config.ExcludeFile, c, l)
	case PromptExit:
		l.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func inspect(weights matching.Weights, c *filtering.Candidates) error {
	for {
		items := make([]string, 0, c.Len()+1)
		for _, item := range c.Items {
			label := fmt.Sprintf("%s [%d]", item.Result.OpportunityID, item.Result.Score)
			if o := item.Opportunity; o != nil {
				label = fmt.Sprintf("%s [%d] %s / %s", o.ID, item.Result.Score, o.Title, o.Company)
			}
			items = append(items, utils.TruncateForLog(label, maxInspectLabel))
		}

		selectPrompt := promptui.Select{
			Label: "Choose an opportunity and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := selectPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		item := c.Items[idx]
		if o := item.Opportunity; o != nil && o.URL != "" {
			fmt.Fprintf(os.Stdout, "%s\n", o.URL)
		}
		if err := report.WriteBreakdown(os.Stdout, item.Result, weights); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
	}
}

func appendToExcludeFile(path string, c *filtering.Candidates, l *zap.Logger) error {
	excluded, err := headhunter.LoadExcluded(path)
	if err != nil {
		return err
	}

	opps := make([]*matching.Opportunity, 0, c.Len())
	for _, item := range c.Items {
		opp := item.Opportunity
		if opp == nil {
			opp = &matching.Opportunity{ID: item.Result.OpportunityID}
		}
		opps = append(opps, opp)
	}

	excluded.Append(headhunter.Exclude(time.Now(), opps...))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	l.Info("appended to exclude file", zap.String("filename", path))

	ids := make(map[string]bool)
	for _, id := range excluded.IDs() {
		ids[id] = true
	}
	c.Remove(func(item *filtering.Candidate) bool {
		return ids[item.Result.OpportunityID]
	})
	return nil
}
