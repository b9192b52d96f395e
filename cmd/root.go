package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-sorter/internal/filtering"
	"github.com/spigell/cv-sorter/internal/pipeline"
	"github.com/spigell/cv-sorter/internal/profile"
)

const (
	app       = "cv-sorter"
	envPrefix = "CV_SORTER"
)

type Config struct {
	Input         string           `mapstructure:"input" validate:"required"`
	Output        string           `mapstructure:"output" validate:"required"`
	CVDir         string           `mapstructure:"cv-dir" validate:"required"`
	BatchSize     int              `mapstructure:"batch-size" validate:"min=1"`
	MinTextLength int              `mapstructure:"min-text-length" validate:"min=1"`
	PreviewLength int              `mapstructure:"preview-length" validate:"min=1"`
	Profiles      []map[string]any `mapstructure:"profiles"`
	Weights       map[string]int   `mapstructure:"weights"`
	Contacts      *ContactsConfig  `mapstructure:"contacts" validate:"required"`
}

type ContactsConfig struct {
	MinimumConfidence int    `mapstructure:"minimum-confidence" validate:"min=0,max=100"`
	Domain            string `mapstructure:"domain"`
	LogFile           string `mapstructure:"log-file"`
	Export            string `mapstructure:"export"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-sorter classifies candidate résumés into professional domains and prepares contact lists",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-sorter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("input", "data/cv_applications.csv")
	viper.SetDefault("output", "data/cv_with_domains.csv")
	viper.SetDefault("cv-dir", "downloaded_cvs")
	viper.SetDefault("batch-size", pipeline.DefaultBatchSize)
	viper.SetDefault("min-text-length", pipeline.DefaultMinTextLength)
	viper.SetDefault("preview-length", pipeline.DefaultPreviewLength)
	viper.SetDefault("contacts.minimum-confidence", 20)
	viper.SetDefault("contacts.log-file", "data/contact_log.json")
	viper.SetDefault("contacts.export", "data/contacts.xlsx")
}

func initConfig() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The defaults are enough to run without a config file unless one was asked for.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return config, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}

// profileTable builds the domain table, applying the configured overrides.
func (c *Config) profileTable() (*profile.Table, error) {
	return profile.FromOverrides(profile.Overrides{
		Domains: c.Profiles,
		Weights: c.Weights,
	})
}

func (c *Config) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		BatchSize:     c.BatchSize,
		MinTextLength: c.MinTextLength,
		PreviewLength: c.PreviewLength,
	}
}

func (c *Config) filteringConfig() *filtering.Config {
	return &filtering.Config{
		MinimumConfidence: c.Contacts.MinimumConfidence,
		Domain:            c.Contacts.Domain,
		ContactLogFile:    c.Contacts.LogFile,
	}
}
