package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"effectsolutions/internal/config"
	"effectsolutions/internal/demo"
	"effectsolutions/internal/effect"
	"effectsolutions/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Messages forwarded from the controller's subscription channels.
type (
	stateChangedMsg struct{}
	notificationMsg struct{}
	tickMsg         time.Time
)

// ConfigMsg delivers a reloaded configuration to a running Model.
type ConfigMsg struct {
	Config *config.Config
}

// Model is a bubbletea model bound to one task controller.
type Model struct {
	ctx         context.Context
	task        effect.Handle
	description string
	render      func(any) string
	styles      Styles
	spinner     spinner.Model
	tracker     *effect.Tracker
	last        effect.Transition
	refresh     time.Duration
	wordWrap    int
	width       int

	events chan tea.Msg
	done   chan struct{}
	unsub  []func()
	quit   bool
}

// Option configures a Model.
type Option func(*Model)

// WithDescription sets the line shown under the title.
func WithDescription(s string) Option {
	return func(m *Model) { m.description = s }
}

// WithConfig applies the ui section of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(m *Model) { m.applyConfig(cfg) }
}

// New binds a model to task. Runs started from the model use ctx as parent.
func New(ctx context.Context, task effect.Handle, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(RunningColor)

	m := Model{
		ctx:      ctx,
		task:     task,
		render:   demo.Render,
		styles:   DefaultStyles(),
		spinner:  sp,
		tracker:  effect.NewTracker(task.StateType()),
		refresh:  100 * time.Millisecond,
		wordWrap: 80,
		events:   make(chan tea.Msg, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.unsub = append(m.unsub,
		task.Subscribe(func() { m.forward(stateChangedMsg{}) }),
		task.SubscribeNotifications(func() { m.forward(notificationMsg{}) }),
	)
	return m
}

// forward hands a change to the program without blocking the controller.
// Dropped messages are harmless: the view always reads current state.
func (m Model) forward(msg tea.Msg) {
	select {
	case <-m.done:
	case m.events <- msg:
	default:
	}
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.done:
			return nil
		}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.refresh = cfg.GetRefreshInterval()
	if cfg.UI.WordWrap > 0 {
		m.wordWrap = cfg.UI.WordWrap
	}
}

// Close unsubscribes from the controller. It is safe to call more than once.
func (m *Model) Close() {
	for _, fn := range m.unsub {
		fn()
	}
	m.unsub = nil
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent(), m.tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			m.task.Start(m.ctx)
		case "i":
			m.task.Interrupt()
		case "r":
			m.task.Reset()
		case "q", "ctrl+c", "esc":
			m.quit = true
			m.Close()
			return m, tea.Quit
		}
		return m, nil

	case stateChangedMsg:
		m.last = m.tracker.Observe(m.task.StateType())
		if m.last.Changed() {
			logging.Get(logging.CategoryUI).Debug("%s: %s -> %s", m.task.Name(), m.last.Previous, m.last.Current)
		}
		return m, m.waitForEvent()

	case notificationMsg:
		return m, m.waitForEvent()

	case tickMsg:
		return m, m.tick()

	case ConfigMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	st := m.task.StateType()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.task.Name()))
	b.WriteString(" ")
	b.WriteString(m.styles.Badge(st))
	if m.task.ShowTimer() {
		if d, ok := m.task.Elapsed(); ok {
			b.WriteString(" ")
			b.WriteString(m.styles.Timer.Render(FormatElapsed(d)))
		}
	}
	b.WriteString("\n")

	if m.description != "" {
		b.WriteString(m.styles.Description.Width(m.wrapWidth()).Render(m.description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.body(st))
	b.WriteString("\n")

	if n, ok := m.task.Notification(); ok {
		text := n.Message
		if n.Icon != "" {
			text = n.Icon + " " + text
		}
		b.WriteString(m.styles.Notification.Render(text))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("enter run • i interrupt • r reset • q quit"))
	return b.String()
}

func (m Model) body(st effect.StateType) string {
	style := m.styles.Result.Foreground(StateColor(st))
	switch st {
	case effect.StateRunning:
		return style.Render(m.spinner.View() + " Running")
	case effect.StateCompleted:
		return style.Render(m.render(m.task.Outcome()))
	case effect.StateFailed:
		return style.Render("Error: " + fmt.Sprint(m.task.Outcome()))
	case effect.StateDeath:
		return style.Render("Defect: " + fmt.Sprint(m.task.Outcome()))
	case effect.StateInterrupted:
		return style.Render("Interrupted")
	default:
		return style.Render("Press enter to run")
	}
}

func (m Model) wrapWidth() int {
	if m.width > 0 && m.width < m.wordWrap {
		return m.width
	}
	return m.wordWrap
}

// FormatElapsed formats a duration as seconds with one decimal, e.g. "1.2s".
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
