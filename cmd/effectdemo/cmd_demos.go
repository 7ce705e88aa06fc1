package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"effectsolutions/internal/demo"
	"effectsolutions/internal/effect"
	"effectsolutions/internal/ui"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	runTimer          bool
	runAll            bool
	runInterruptAfter time.Duration
	runResetAfter     time.Duration
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available demos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, name := range catalog.Names() {
			d, _ := catalog.Get(name)
			fmt.Fprintf(w, "%-12s %s\n", name, d.Title)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [demo]",
	Short: "Show a demo's description and code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := catalog.Get(args[0])
		if err != nil {
			return err
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(cfg.UI.WordWrap),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := renderer.Render(d.Markdown())
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", d.Name, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [demo...]",
	Short: "Run demos and print every transition",
	Long: `Runs one or more demos to completion, printing each state change and
notification. With --all every demo runs concurrently.

  effectdemo run simple
  effectdemo run parallel --interrupt-after 500ms
  effectdemo run --all --timer`,
	RunE: runDemos,
}

func init() {
	runCmd.Flags().BoolVar(&runTimer, "timer", false, "Show elapsed time")
	runCmd.Flags().BoolVar(&runAll, "all", false, "Run every demo")
	runCmd.Flags().DurationVar(&runInterruptAfter, "interrupt-after", 0, "Interrupt each run after this long")
	runCmd.Flags().DurationVar(&runResetAfter, "reset-after", 0, "Reset each run after this long")
}

func runDemos(cmd *cobra.Command, args []string) error {
	names := args
	if runAll {
		names = catalog.Names()
	}
	if len(names) == 0 {
		return errors.New("name a demo or pass --all")
	}

	controllers := make([]*effect.Controller[any], len(names))
	for i, name := range names {
		c, err := catalog.New(name, controllerOptions(runTimer)...)
		if err != nil {
			return err
		}
		controllers[i] = c
	}

	p := &printer{w: cmd.OutOrStdout()}
	g, gctx := errgroup.WithContext(cmd.Context())
	for _, c := range controllers {
		g.Go(func() error {
			runOne(gctx, c, p)
			return nil
		})
	}
	return g.Wait()
}

// printer serialises lines from concurrent runs.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func runOne(ctx context.Context, c *effect.Controller[any], p *printer) {
	name := c.Name()
	tracker := effect.NewTracker(c.StateType())
	var mu sync.Mutex
	unsubState := c.Subscribe(func() {
		mu.Lock()
		tr := tracker.Observe(c.StateType())
		mu.Unlock()
		if tr.Changed() {
			p.printf("[%s] %s -> %s\n", name, tr.Previous, tr.Current)
		}
	})
	defer unsubState()

	var lastNote string
	unsubNotes := c.SubscribeNotifications(func() {
		n, ok := c.Notification()
		mu.Lock()
		fresh := ok && n.ID != lastNote
		if fresh {
			lastNote = n.ID
		}
		mu.Unlock()
		if fresh {
			p.printf("[%s] %s %s\n", name, n.Icon, n.Message)
		}
	})
	defer unsubNotes()

	done := c.Start(ctx)
	if runInterruptAfter > 0 {
		t := time.AfterFunc(runInterruptAfter, c.Interrupt)
		defer t.Stop()
	}
	if runResetAfter > 0 {
		t := time.AfterFunc(runResetAfter, c.Reset)
		defer t.Stop()
	}
	<-done

	p.printf("[%s] %s\n", name, describe(c))
}

// describe summarises a settled controller for the final line of a run.
func describe(c *effect.Controller[any]) string {
	st := c.State()
	line := effect.MatchState(st, effect.StateCases[any, string]{
		Idle:        func() string { return "idle" },
		Running:     func() string { return "running" },
		Completed:   func(v any) string { return "completed: " + demo.Render(v) },
		Failed:      func(err error) string { return "failed: " + err.Error() },
		Interrupted: func() string { return "interrupted" },
		Death:       func(cause any) string { return fmt.Sprintf("death: %v", cause) },
	})
	if d, ok := c.Elapsed(); ok && c.ShowTimer() {
		line += " (" + ui.FormatElapsed(d) + ")"
	}
	return line
}
