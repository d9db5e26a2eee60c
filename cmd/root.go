package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dgview/dgview/internal/api"
	"github.com/dgview/dgview/internal/config"
	"github.com/dgview/dgview/internal/remote"
	"github.com/dgview/dgview/internal/tui"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	globalConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dgview",
	Short: "A terminal browser for DeltaGlider-compressed object storage",
	Long: `dgview browses object storage buckets that hold delta-compressed
objects, either through a storage-browser API server or directly against an
S3-compatible endpoint. It shows original versus stored sizes, supports
keyboard-driven navigation with multi-select, and works non-interactively
for scripting.

Example usage:
  dgview                           # Interactive browser
  dgview list releases/            # Table listing of a prefix
  dgview buckets                   # Bucket stats
  dgview delete releases/old.bin   # Delete one object`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowser("")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.dgview/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging()

	return nil
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Redirect all logs to file to prevent UI interference
	logDir := "/tmp/dgview"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
	} else {
		logFile := filepath.Join(logDir, "app.log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}

// newBackend builds the storage collaborator the config selects: the listing
// API when an endpoint is configured, direct S3 otherwise.
func newBackend(cfg *config.Config) (tui.Backend, error) {
	if cfg.UseAPI() {
		return api.NewClient(&api.Config{
			BaseURL:     cfg.API.Endpoint,
			AccessToken: cfg.API.AccessToken,
			MaxRetries:  cfg.API.MaxRetries,
			Timeout:     time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		}), nil
	}

	fetcher, err := remote.NewS3Fetcher(context.Background(), &remote.S3Config{
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return fetcher, nil
}

// runBrowser launches the interactive browser at the given prefix.
func runBrowser(prefix string) error {
	cfg := globalConfig

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	model := tui.NewBrowserModel(backend, cfg)
	if prefix != "" {
		model.SetPrefix(prefix)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Set program reference in model for direct messaging
	model.SetProgram(program)

	_, err = program.Run()
	return err
}
