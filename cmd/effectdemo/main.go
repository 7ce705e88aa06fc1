// Command effectdemo runs the task-lifecycle demos from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"effectsolutions/internal/config"
	"effectsolutions/internal/demo"
	"effectsolutions/internal/effect"
	"effectsolutions/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg     *config.Config
	catalog *demo.Catalog
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "effectdemo",
	Short: "Visualise task lifecycles: run, interrupt, reset",
	Long: `effectdemo drives example computations through the task lifecycle
(idle, running, completed, failed, interrupted, death) and shows every
transition and notification as it happens.

It also hosts the toy task-list terminal used in the guide.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := configureLogging(cmd, cfg.Logging); err != nil {
			return err
		}
		logging.Boot("config loaded from %s", configPath)

		if catalog == nil {
			catalog = demo.NewCatalog(demo.DefaultStep)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// loggingOptions applies the command-line overrides to the logging section.
func loggingOptions(cmd *cobra.Command, lc config.LoggingConfig) logging.Options {
	opts := lc.Options()
	if verbose {
		opts.DebugMode = true
	}
	opts.Output = cmd.ErrOrStderr()
	return opts
}

func configureLogging(cmd *cobra.Command, lc config.LoggingConfig) error {
	if err := logging.Configure(loggingOptions(cmd, lc)); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	return nil
}

// controllerOptions builds controller options from the loaded config.
func controllerOptions(showTimer bool) []effect.Option {
	return []effect.Option{
		effect.WithTimer(showTimer || cfg.Effect.ShowTimer),
		effect.WithDebugDefects(cfg.Effect.DebugDefects),
		effect.WithNotificationDuration(cfg.GetNotificationDuration()),
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "effectdemo.yaml", "Path to config file")

	rootCmd.AddCommand(listCmd, showCmd, runCmd, watchCmd, tasksCmd, terminalCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
