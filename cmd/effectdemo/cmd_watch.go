package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"effectsolutions/internal/config"
	"effectsolutions/internal/logging"
	"effectsolutions/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [demo]",
	Short: "Drive a demo interactively",
	Long: `Opens an interactive view of one demo.

Keys: enter runs, i interrupts, r resets, q quits. Edits to the config file
are picked up while the view is open.`,
	Args: cobra.ExactArgs(1),
	RunE: watchDemo,
}

func watchDemo(cmd *cobra.Command, args []string) error {
	d, err := catalog.Get(args[0])
	if err != nil {
		return err
	}
	c, err := catalog.New(d.Name, controllerOptions(false)...)
	if err != nil {
		return err
	}
	defer c.Reset()

	ctx := cmd.Context()
	model := ui.New(ctx, c, ui.WithDescription(d.Description), ui.WithConfig(cfg))
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	if _, err := os.Stat(configPath); err == nil {
		w, err := config.NewWatcher(configPath, 200*time.Millisecond, func(next *config.Config) {
			if err := configureLogging(cmd, next.Logging); err != nil {
				logging.Get(logging.CategoryConfig).Warn("ignoring logging config: %v", err)
			}
			p.Send(ui.ConfigMsg{Config: next})
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			w.Stop()
			logging.Get(logging.CategoryConfig).Debug("applied %d config reloads", w.Reloads())
		}()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
