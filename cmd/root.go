package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "gitscout"
)

type Config struct {
	GitHub      *GitHubConfig   `mapstructure:"github"`
	TokenFile   string          `mapstructure:"token-file"`
	DismissFile string          `mapstructure:"dismiss-file"`
	Matching    *MatchingConfig `mapstructure:"matching"`
	Exclude     *struct {
		Labels []string
	}
	AI *AIConfig `mapstructure:"ai"`
}

type GitHubConfig struct {
	Username string `mapstructure:"username"`
	Owner    string `mapstructure:"owner"`
	Repo     string `mapstructure:"repo"`
}

type MatchingConfig struct {
	// MinScore is a pointer so an explicit zero can be told apart from an
	// absent setting.
	MinScore *float64 `mapstructure:"min-score"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "gitscout is a simple cli for finding GitHub issues that match your skills",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A local .env is optional; matching the original workflow of keeping the
	// GitHub token next to the checkout.
	_ = godotenv.Load()

	if err := viper.BindEnv("token-file", "GITHUB_TOKEN_FILE"); err != nil {
		log.Fatalf("binding GITHUB_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is gitscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run and serve commands. If there is no
	// config, we can skip initialization.
	if runCmd.CalledAs() == "" && serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
