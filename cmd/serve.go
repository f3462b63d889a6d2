package cmd

import (
	"context"
	"log"

	"github.com/gitscout/gitscout/internal/ai"
	"github.com/gitscout/gitscout/internal/filtering"
	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/logger"
	"github.com/gitscout/gitscout/internal/matching"
	"github.com/gitscout/gitscout/internal/recommend"
	"github.com/gitscout/gitscout/internal/server"
	"github.com/gitscout/gitscout/internal/skills"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gitscout pipeline over a http api",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port for the http api to listen on")
}

func serve(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the gitscout", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Warn(
			"proceeding without a github token, rate limits will be low",
			zap.Error(err),
			zap.String("hint", "set GITHUB_TOKEN, GITHUB_TOKEN_FILE or the 'token-file' key in the configuration file"),
		)
	}

	gh := github.New(ctx, logger, token)

	var analyzer ai.Analyzer
	if config.AI != nil && config.AI.Enabled {
		analyzer, err = newAIAnalyzer(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("creating the ai analyzer", zap.Error(err))
		}
	}

	// The dismiss file filter is bound to a single repository, so the api
	// runs without it.
	filters := filtering.New([]filtering.Filter{
		filtering.NewAssigned(),
		filtering.NewExcludedLabels(excludedLabels(config)),
		filtering.NewMinScore(resolveMinScore(cmd, config)),
	}, logger)

	recommender := recommend.New(gh, skills.NewExtractor(), matching.NewScorer(), analyzer, filters, logger)

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		logger.Fatal("getting the port flag", zap.Error(err))
	}

	srv := server.New(server.Config{Port: port}, recommender, logger)

	if err := srv.Start(); err != nil {
		logger.Fatal("http api stopped", zap.Error(err))
	}
}
