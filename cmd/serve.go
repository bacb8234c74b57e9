package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/api"
	"github.com/spigell/job-matcher/internal/secrets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching engine over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default is server.address from config)")
	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := mustEngine(config, l)
	l.Info("starting the job-matcher server",
		zap.String("version", version),
		zap.String("weights", describeWeights(engine.Weights())),
	)

	token, err := secrets.Optional(secrets.Source{
		Name:  "api token",
		Value: config.Server.Token,
		File:  config.Server.TokenFile,
	})
	if err != nil {
		l.Fatal("loading the api token",
			zap.Error(err),
			zap.String("hint", "set JOB_MATCHER_SERVER_TOKEN_FILE or the 'server.token-file' key in the configuration file"),
		)
	}
	if token == "" {
		l.Warn("api token is not configured, /v1 routes are open")
	}

	server := api.New(engine, l, api.Options{Workers: config.Workers, Version: version, Token: token})
	if err := server.ListenAndServe(ctx, config.Server.Address); err != nil {
		l.Fatal("serving", zap.Error(err))
	}
}
