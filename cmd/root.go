package cmd

import (
	"fmt"
	"os"

	"github.com/mallardduck/sentry-alert-tool/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cliName = "sentry-alert-tool"

var (
	// Version represents the current version of the alert tooling
	Version = "v0.0.0-dev"
	// GitCommit represents the latest commit when building this tool
	GitCommit = "HEAD"
	// Date represents the build timestamp
	Date = "now"
)

// Exit codes reported to the operator; a run that finishes but could not
// reconcile every project exits differently than one that never got going.
const (
	ExitOK             = 0
	ExitFatal          = 1
	ExitPartialFailure = 2
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   cliName,
	Short: "Keep Sentry escalating-issue alert rules in sync across an organization",
	Long: `A CLI tool that reconciles "Escalating Issues" alert rules across every
project in a Sentry organization.

Each project gets one alert rule per production-like environment, wired to a
Slack channel and optionally to Jira ticket creation. Rules created by this
tool are recognized by their naming scheme; any other alert rule is left
untouched.

Supports previewing changes without writing, one-shot create-only syncs for
new projects, and a full create-and-update mode that rewrites managed rules
to the current desired shape.`,
	Version: fmt.Sprintf("v%s (%s) Built at %s", Version, GitCommit, Date),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		initConfig()
		logging.Configure(cmd)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(ExitFatal)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Setup log-level global flag
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Set the logging level (debug, info, warn, error, fatal, panic)")

	// Viper config
	viper.SetEnvPrefix("SENTRY")
	viper.AutomaticEnv()
	err := viper.BindEnv("log_level", "SENTRY_LOG_LEVEL")
	if err != nil {
		logging.Log.Error(err)
		return
	}

	// Bind the log-level flag to Viper (this also makes it available via viper.GetString)
	err = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	if err != nil {
		logging.Log.Error(err)
		return
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env file takes the place of exported environment variables;
	// missing files are fine, anything else is worth surfacing.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Log.Warnf("Could not load .env file: %v", err)
	}

	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	// Search config in home directory with name ".sentry-alert-tool" (without extension).
	viper.AddConfigPath(home)
	viper.SetConfigName("." + cliName)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_, err = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		if err != nil {
			logging.Log.Error(err)
			return
		}
	}
}
