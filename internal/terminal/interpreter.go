package terminal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"effectsolutions/internal/logging"

	"github.com/spf13/cobra"
)

// Result is the captured output of one command line.
type Result struct {
	Output  string
	IsError bool
}

// Interpreter runs task-list command lines against a Repo and records them
// in a History.
type Interpreter struct {
	repo    *Repo
	history *History
	log     *logging.Logger
}

// NewInterpreter creates an interpreter over repo with an unbounded history.
func NewInterpreter(repo *Repo) *Interpreter {
	return &Interpreter{
		repo:    repo,
		history: NewHistory(0),
		log:     logging.Get(logging.CategoryTerminal),
	}
}

// History returns the session history.
func (i *Interpreter) History() *History {
	return i.history
}

// Run parses line, executes it on a fresh command tree and returns what it
// printed. A failing command reports its output, or the error text when it
// printed nothing, with IsError set.
func (i *Interpreter) Run(ctx context.Context, line string) Result {
	return i.exec(ctx, line, ParseArgs(line))
}

// RunArgs is Run for arguments that are already split, e.g. by a shell.
func (i *Interpreter) RunArgs(ctx context.Context, args []string) Result {
	return i.exec(ctx, strings.Join(args, " "), args)
}

func (i *Interpreter) exec(ctx context.Context, line string, args []string) Result {
	var out bytes.Buffer
	root := i.newRootCmd(&out)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	text := strings.TrimRight(out.String(), "\n")

	res := Result{Output: text}
	if err != nil {
		i.log.Debug("command %q failed: %v", line, err)
		res.IsError = true
		if text == "" {
			res.Output = err.Error()
		}
	}
	i.history.Append(Entry{Input: line, Output: res.Output, IsError: res.IsError})
	return res
}

func (i *Interpreter) newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "tasks",
		Short:         "A simple task manager",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(out)

	addCmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := i.repo.Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d: %s\n", task.ID, task.Text)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			tasks := i.repo.List(cmd.Context(), all)
			w := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(w, "No tasks.")
				return nil
			}
			for _, t := range tasks {
				status := "[ ]"
				if t.Done {
					status = "[x]"
				}
				fmt.Fprintf(w, "%s #%d %s\n", status, t.ID, t.Text)
			}
			return nil
		},
	}
	listCmd.Flags().BoolP("all", "a", false, "Show all tasks including completed")

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a task's done status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			task, err := i.repo.Toggle(cmd.Context(), id)
			if errors.Is(err, ErrTaskNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d not found\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Toggled: %s (%s)\n", task.Text, task.Status())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := i.repo.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all tasks.")
			return nil
		},
	}

	root.AddCommand(addCmd, listCmd, toggleCmd, clearCmd)
	return root
}
