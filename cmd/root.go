package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paulwelden/git-ranger/internal/config"
	"github.com/paulwelden/git-ranger/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error: command failure, invalid
	// arguments, or a sync run with failed or conflicted repositories.
	ExitCodeError = 1
)

// configPath overrides the configuration file location. Empty means
// ranger.yaml in the current directory.
var configPath string

// logLevel selects the minimum log level written to stderr.
var logLevel string

// rootCmd represents the base command for the git-ranger application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "git-ranger",
	Short: "Keep a local workspace in sync with declared Git repositories",
	Long: `git-ranger reconciles a directory tree of Git working copies against a
declarative configuration. Repositories are declared either as whole
provider groups (GitLab, GitHub, Gitea) or as explicit URLs; a sync
clones what is missing, fetches what exists, and reports anything it
refuses to touch.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitForCLI(logging.ParseLevel(logLevel), os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "git-ranger version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

// loadConfig reads the configuration and returns it together with the
// workspace root, which is the directory holding the configuration file.
func loadConfig() (config.Config, string, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigFileName
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.Load(abs)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, filepath.Dir(abs), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path (default ./"+config.DefaultConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
}
