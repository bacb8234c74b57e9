package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	apperrors "github.com/spigell/job-matcher/internal/errors"
	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/matching"
)

const (
	app       = "job-matcher"
	envPrefix = "JOB_MATCHER"
)

type Config struct {
	Weights          map[string]float64 `mapstructure:"weights"`
	NormalizeWeights bool               `mapstructure:"normalize-weights"`
	MinScore         int                `mapstructure:"min-score"`
	Workers          int                `mapstructure:"workers"`
	Profile          string             `mapstructure:"profile"`
	Opportunities    string             `mapstructure:"opportunities"`
	VacanciesFile    string             `mapstructure:"vacancies-file"`
	ExcludeFile      string             `mapstructure:"exclude-file"`
	Exclude          *ExcludeConfig     `mapstructure:"exclude"`
	Server           *ServerConfig      `mapstructure:"server"`
}

type ExcludeConfig struct {
	Companies []string `mapstructure:"companies"`
	RedFlags  []string `mapstructure:"red-flags"`
}

type ServerConfig struct {
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token" json:"-"`
	TokenFile string `mapstructure:"token-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-matcher scores how well opportunities fit a candidate profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to a file instead of stderr")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.PersistentFlags().StringP("profile", "p", "", "profile file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringP("opportunities", "o", "", "file with an opportunities list")
	rootCmd.PersistentFlags().String("vacancies-file", "", "hh.ru vacancies dump used as an extra opportunity source")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "special file with opportunities to exclude. Default is unset.")

	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("opportunities", rootCmd.PersistentFlags().Lookup("opportunities"))
	viper.BindPFlag("vacancies-file", rootCmd.PersistentFlags().Lookup("vacancies-file"))
	viper.BindPFlag("exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))

	viper.SetDefault("min-score", matching.DefaultMinScore)
	viper.SetDefault("workers", 4)
	viper.SetDefault("server.address", "127.0.0.1:8080")
	// Registered so that the env vars reach Unmarshal.
	viper.SetDefault("server.token", "")
	viper.SetDefault("server.token-file", "")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	// The version command needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config every setting may come from flags and env.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Exclude == nil {
		config.Exclude = &ExcludeConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.Build(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: viper.GetString("log-file"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// weightsFromConfig returns the configured weight vector, or the defaults when
// none is set.
func weightsFromConfig(config *Config) (matching.Weights, error) {
	if len(config.Weights) == 0 {
		return matching.DefaultWeights(), nil
	}

	if !config.NormalizeWeights {
		return matching.NewWeights(config.Weights)
	}

	var w matching.Weights
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &w,
	})
	if err != nil {
		return w, err
	}
	if err := decoder.Decode(config.Weights); err != nil {
		return w, apperrors.Configuration("decoding weights", err)
	}

	return w.Normalized()
}

func newEngine(config *Config) (*matching.Engine, error) {
	weights, err := weightsFromConfig(config)
	if err != nil {
		return nil, err
	}

	engine, err := matching.New(weights, matching.WithClock(time.Now))
	if err != nil {
		return nil, err
	}
	return engine, nil
}

func mustEngine(config *Config, l *zap.Logger) *matching.Engine {
	engine, err := newEngine(config)
	if err != nil {
		l.Fatal("building the matching engine", zap.Error(err))
	}
	return engine
}

func describeWeights(w matching.Weights) string {
	parts := make([]string, 0, len(matching.Criteria))
	for _, c := range matching.Criteria {
		parts = append(parts, fmt.Sprintf("%s=%.2f", c, w.Get(c)))
	}
	return strings.Join(parts, " ")
}
