package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nkp-tools/nkp-as-built/pkg/config"
	"github.com/nkp-tools/nkp-as-built/pkg/logger"
)

var (
	configPath string
)

func main() {
	rootCmd := NewRootCommand()

	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Command execution failed: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nkp-as-built",
		Short:         "NKP cluster as-built reporter",
		Long:          "Collect an as-built inventory of every cluster managed by an NKP management cluster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an optional configuration file (yaml or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory for a log file in addition to stderr")

	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewVersionCommand())

	// Set up persistent pre-run to initialize config and logger
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Skip config loading for version command
		if cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig(configPath, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := logger.SetupLogger(cmd.Context(), cfg.Log.Level, cfg.Log.Dir)
		cmd.SetContext(ctx)
		return nil
	}

	return rootCmd
}
