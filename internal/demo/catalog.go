// Package demo is a catalog of example computations that drive task
// controllers through every lifecycle outcome.
package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"effectsolutions/internal/effect"
	"effectsolutions/internal/logging"
)

// DefaultStep is the base delay demos sleep for.
const DefaultStep = time.Second

// ErrUnknownDemo is returned for names not in the catalog.
var ErrUnknownDemo = errors.New("unknown demo")

// Demo describes one example computation.
type Demo struct {
	Name        string
	Title       string
	Description string // markdown
	Code        string // Go snippet shown next to the runner

	build func(step time.Duration, opts []effect.Option) *effect.Controller[any]
}

// Markdown is the description followed by the code as a fenced block.
func (d Demo) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n```go\n%s\n```\n", d.Title, strings.TrimSpace(d.Description), strings.TrimSpace(d.Code))
	return b.String()
}

// Catalog holds the demos in display order.
type Catalog struct {
	step  time.Duration
	order []string
	demos map[string]Demo
}

// NewCatalog creates the catalog. step scales every sleep in every demo;
// zero or less means DefaultStep.
func NewCatalog(step time.Duration) *Catalog {
	if step <= 0 {
		step = DefaultStep
	}
	c := &Catalog{step: step, demos: make(map[string]Demo)}
	for _, d := range builtins() {
		c.order = append(c.order, d.Name)
		c.demos[d.Name] = d
	}
	return c
}

// Names lists demo names in display order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Get looks a demo up by name.
func (c *Catalog) Get(name string) (Demo, error) {
	d, ok := c.demos[name]
	if !ok {
		return Demo{}, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
	}
	return d, nil
}

// New builds a fresh idle controller for the named demo.
func (c *Catalog) New(name string, opts ...effect.Option) (*effect.Controller[any], error) {
	d, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	logging.Get(logging.CategoryDemo).Debug("building demo %s (step %s)", name, c.step)
	return d.build(c.step, opts), nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
