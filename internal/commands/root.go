// internal/commands/root.go
package fraudcheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/mwiater/fraudcheck/internal/api"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. FRAUDCHECK_BASEURL.
const envPrefix = "FRAUDCHECK"

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command. Without a subcommand it opens the form.
var rootCmd = &cobra.Command{
	Use:          "fraudcheck",
	Short:        "fraudcheck: terminal client for the customs fraud detection service",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range []string{"debug", "jsonMode", "resetOnError", "metrics"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		for _, name := range []string{"baseURL", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		if !cmd.Flags().Changed("timeout") {
			_ = cmd.Flags().Set("timeout", strconv.Itoa(viper.GetInt("timeout")))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		// The form owns the terminal, so it only logs to the file.
		console := cmd.ErrOrStderr()
		if !cfg.Debug || isFullScreen(cmd) {
			console = nil
		}
		if err := logging.Init(currentConfig.LogFilePath(), console); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		api.UserAgent = "fraudcheck/" + appVersion

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().String("baseURL", appconfig.DefaultBaseURL, "base URL of the prediction service")
	rootCmd.PersistentFlags().Int("timeout", 30, "per-request timeout in seconds")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("jsonMode", false, "print machine-readable JSON output")
	rootCmd.PersistentFlags().Bool("resetOnError", false, "clear the form after a failed prediction")
	rootCmd.PersistentFlags().Bool("metrics", false, "record service call metrics and log a summary on exit")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	for _, name := range []string{"baseURL", "timeout", "debug", "jsonMode", "resetOnError", "metrics", "logFile"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads .env, environment variables and the config file location.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	defaults := appconfig.Defaults()
	viper.SetDefault("baseURL", defaults.BaseURL)
	viper.SetDefault("timeout", defaults.TimeoutSeconds)
	viper.SetDefault("logFile", defaults.LogFile)
	viper.SetDefault("debug", false)
	viper.SetDefault("jsonMode", false)
	viper.SetDefault("resetOnError", false)
	viper.SetDefault("metrics", false)

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. A missing file is not an error.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

func isFullScreen(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == formCmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		defaults := appconfig.Defaults()
		return &defaults
	}
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// JSONModeEnabled returns true if JSON mode is enabled.
func JSONModeEnabled() bool { return viper.GetBool("jsonMode") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
