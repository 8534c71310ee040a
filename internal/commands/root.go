// Package commands wires the k6merge CLI together with cobra and viper.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mwiater/k6merge/internal/appconfig"
	"github.com/mwiater/k6merge/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	envFile       string
	loadedFrom    string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "k6merge",
	Short:        "Combine k6 summary exports from parallel workers",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := appconfig.LoadEnvFile(envFile); err != nil {
			return err
		}
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loadedFrom
		if err := cfg.Validate(); err != nil {
			return err
		}
		currentConfig = &cfg

		if cfg.NoColor {
			color.NoColor = true
		}
		if err := logging.Init(cfg.Level(), cfg.LogFile); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (json, yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "envFile", appconfig.DefaultEnvFile, "dotenv file loaded before reading config")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logLevel", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("logFile", "", "also write logs to this file")
	rootCmd.PersistentFlags().Bool("noColor", false, "disable colored output")
	rootCmd.PersistentFlags().Int("concurrency", 0, "input files read in parallel (0 = default)")

	for _, name := range []string{"debug", "logLevel", "logFile", "noColor", "concurrency"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	viper.SetEnvPrefix(appconfig.EnvPrefix)
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. Only the default path may be missing.
func ensureConfigLoaded() error {
	loadedFrom = ""
	if cfgFile == "" {
		return nil
	}
	if cfgFile == appconfig.DefaultConfigPath {
		if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	loadedFrom = viper.ConfigFileUsed()
	return nil
}

// GetConfig returns the loaded application configuration.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
