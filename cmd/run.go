package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gitscout/gitscout/internal/ai"
	"github.com/gitscout/gitscout/internal/ai/gemini"
	"github.com/gitscout/gitscout/internal/filtering"
	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/logger"
	"github.com/gitscout/gitscout/internal/matching"
	"github.com/gitscout/gitscout/internal/recommend"
	"github.com/gitscout/gitscout/internal/secrets"
	"github.com/gitscout/gitscout/internal/skills"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes                 = "Yes"
	PromptNo                  = "No"
	PromptReportByLabel       = "Report by label"
	PromptRecsToFile          = "Dump recommendations to file"
	PromptAppendToDismissFile = "Append all issues to dismiss file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportByLabel, PromptRecsToFile, PromptAppendToDismissFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gitscout main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation if found suitable issues")
	runCmd.Flags().StringP("username", "u", "", "GitHub username to build the skill profile from")
	runCmd.Flags().String("owner", "", "owner of the repository to scan for issues")
	runCmd.Flags().String("repo", "", "repository to scan for issues")
	runCmd.Flags().Float64("min-score", -1, "minimum match score for a recommendation. Negative means use the config value.")
	runCmd.Flags().StringP("dismiss-file", "e", "", "special file with issues to dismiss. Default is unset.")

	viper.BindPFlag("dismiss-file", runCmd.Flags().Lookup("dismiss-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
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

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	username := flagOrConfig(cmd, "username", config.GitHub, func(g *GitHubConfig) string { return g.Username })
	owner := flagOrConfig(cmd, "owner", config.GitHub, func(g *GitHubConfig) string { return g.Owner })
	repo := flagOrConfig(cmd, "repo", config.GitHub, func(g *GitHubConfig) string { return g.Repo })

	if username == "" || owner == "" || repo == "" {
		logger.Fatal("a github username, owner and repo are required",
			zap.String("hint", "set them under the github section in the configuration file or via flags"),
		)
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

	repository := owner + "/" + repo
	minScore := resolveMinScore(cmd, config)

	filters := filtering.New([]filtering.Filter{
		filtering.NewAssigned(),
		filtering.NewExcludedLabels(excludedLabels(config)),
		filtering.NewDismissFile(viper.GetString("dismiss-file"), repository),
		filtering.NewMinScore(minScore),
	}, logger)

	recommender := recommend.New(gh, skills.NewExtractor(), matching.NewScorer(), analyzer, filters, logger)

	logger.Info("starting the scan",
		zap.String("username", username),
		zap.String("repository", repository),
		zap.Float64("min_score", minScore),
	)

	recommendations, err := recommender.Recommendations(ctx, username, owner, repo)
	if err != nil {
		logger.Fatal("getting recommendations", zap.Error(err))
	}

	if recommendations.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matching issues found"))
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-aprove").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of recommendations", zap.Int("count", recommendations.Len()))

		if err := handleAction(action, logger, recommendations, repository); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, recommendations *matching.Recommendations, repository string) error {
	switch action {
	case PromptYes:
		pretty, _ := json.MarshalIndent(recommendations.Items, "", "  ")
		fmt.Fprintln(os.Stdout, string(pretty))
		logger.Info("printed recommendations", zap.Int("count", recommendations.Len()))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByLabel:
		pretty, _ := json.MarshalIndent(recommendations.ReportByLabel(), "", "  ")
		logger.Info(string(pretty), zap.Int("recommendations count", recommendations.Len()))
		return nil
	case PromptRecsToFile:
		filename, err := recommendations.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToDismissFile:
		dismissFile := viper.GetString("dismiss-file")
		if dismissFile == "" {
			return errors.New("dismiss file is not configured")
		}

		dismissed, err := github.GetDismissedIssuesFromFile(dismissFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			dismissed = &github.DismissedIssues{}
		}

		dismissed.Append(recommendations.ToDismissed(repository))

		if err = dismissed.ToFile(dismissFile); err != nil {
			return err
		}

		logger.Info("appended to dismiss file", zap.String("filename", dismissFile))

		recommendations.Exclude(dismissed.Numbers(repository))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func flagOrConfig(cmd *cobra.Command, name string, cfg *GitHubConfig, pick func(*GitHubConfig) string) string {
	if v := strings.TrimSpace(cmd.Flag(name).Value.String()); v != "" {
		return v
	}
	if cfg != nil {
		return strings.TrimSpace(pick(cfg))
	}
	return ""
}

func resolveMinScore(cmd *cobra.Command, config *Config) float64 {
	if flag := cmd.Flag("min-score"); flag != nil && flag.Changed {
		var v float64
		if _, err := fmt.Sscanf(flag.Value.String(), "%g", &v); err == nil && v >= 0 {
			return v
		}
	}

	if config.Matching != nil && config.Matching.MinScore != nil {
		return *config.Matching.MinScore
	}

	return matching.DefaultMinScore
}

func excludedLabels(config *Config) []string {
	if config.Exclude == nil {
		return nil
	}
	return config.Exclude.Labels
}

func resolveToken(config *Config) (string, error) {
	tokenFile := ""
	if config != nil {
		tokenFile = strings.TrimSpace(config.TokenFile)
	}
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	return secrets.Load(secrets.Source{
		Name: "github token",
		File: tokenFile,
		Env:  "GITHUB_TOKEN",
	})
}

func newAIAnalyzer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Analyzer, error) {
	if cfg.Gemini == nil {
		return nil, errors.New("ai.gemini section is required when ai is enabled")
	}

	apiKeyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: apiKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	analyzerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewAnalyzer(generator, analyzerLogger, cfg.Gemini.MaxLogLength), nil
}
