package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"effectsolutions/internal/logging"
	"effectsolutions/internal/terminal"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [args...]",
	Short: "Run one task-list command (add, list, toggle, clear)",
	Long: `Runs a single command of the toy task manager.

  effectdemo tasks add "Buy milk"
  effectdemo tasks toggle 1
  effectdemo tasks -- list --all

Flags meant for the task manager go after "--".`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, closeStore, err := newInterpreter()
		if err != nil {
			return err
		}
		defer closeStore()

		res := interp.RunArgs(cmd.Context(), args)
		if res.Output != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		}
		if res.IsError {
			return errors.New("tasks command failed")
		}
		return nil
	},
}

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Interactive task-list shell",
	Long: `Reads task-list commands line by line. "history" prints the session,
"complete <partial>" prints the completed command line, "exit" leaves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, closeStore, err := newInterpreter()
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		in := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "$ ")
			if !in.Scan() {
				fmt.Fprintln(out)
				return in.Err()
			}
			if partial, ok := completionInput(in.Text()); ok {
				fmt.Fprintln(out, partial+terminal.Complete(partial))
				continue
			}
			line := strings.TrimSpace(in.Text())
			switch line {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "history":
				for _, e := range interp.History().Entries() {
					fmt.Fprintf(out, "%s\n", e.Input)
				}
				continue
			}

			res := interp.Run(cmd.Context(), line)
			if res.Output == "" {
				continue
			}
			if res.IsError {
				fmt.Fprintf(out, "error: %s\n", res.Output)
			} else {
				fmt.Fprintln(out, res.Output)
			}
		}
	},
}

// completionInput extracts the partial command of a "complete" line. Trailing
// spaces are kept since they decide whether a flag is suggested.
func completionInput(raw string) (string, bool) {
	s := strings.TrimLeft(raw, " \t")
	if s == "complete" {
		return "", true
	}
	return strings.CutPrefix(s, "complete ")
}

// newInterpreter opens the configured store. An empty database path keeps
// tasks in memory for the life of the process.
func newInterpreter() (*terminal.Interpreter, func(), error) {
	var (
		store     terminal.Store
		closeFunc = func() {}
	)
	if path := cfg.Terminal.DatabasePath; path != "" {
		s, err := terminal.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		store = s
		closeFunc = func() { _ = s.Close() }
		logging.Get(logging.CategoryStore).Debug("tasks stored in %s", s.Path())
	} else {
		store = terminal.NewMemoryStore()
	}

	repo := terminal.NewRepo(store, terminal.WithKeys(cfg.Terminal.StorageKey, cfg.Terminal.InitializedKey))
	return terminal.NewInterpreter(repo), closeFunc, nil
}
