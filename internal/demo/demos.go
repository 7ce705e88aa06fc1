package demo

import (
	"errors"
	"fmt"
	"time"

	"effectsolutions/internal/effect"

	"golang.org/x/sync/errgroup"
)

// ErrUpstream is the declared failure of the failure demo.
var ErrUpstream = errors.New("upstream unavailable")

func builtins() []Demo {
	return []Demo{
		{
			Name:        "simple",
			Title:       "Simple Effect",
			Description: "Runs for 1 second then completes.",
			Code: `effect.New("simple", func(tc *effect.TaskContext) (string, error) {
	if err := sleep(tc, time.Second); err != nil {
		return "", err
	}
	return "Success!", nil
})`,
			build: buildSimple,
		},
		{
			Name:  "failure",
			Title: "Expected Failure",
			Description: "Fails with a declared error. The controller settles in **Failed** " +
				"and keeps the error for display.",
			Code: `effect.New("failure", func(tc *effect.TaskContext) (string, error) {
	sleep(tc, 500*time.Millisecond)
	return "", fmt.Errorf("fetch forecast: %w", ErrUpstream)
})`,
			build: buildFailure,
		},
		{
			Name:  "defect",
			Title: "Defect",
			Description: "Panics half way through. A panic is not a declared failure: " +
				"the controller settles in **Death** and records the panic value.",
			Code: `effect.New("defect", func(tc *effect.TaskContext) (string, error) {
	sleep(tc, 500*time.Millisecond)
	panic("boom")
})`,
			build: buildDefect,
		},
		{
			Name:  "notify",
			Title: "Progress Notifications",
			Description: "Posts a notification for each step. Each new one replaces the " +
				"last, and each disappears on its own after a couple of seconds.",
			Code: `for _, step := range steps {
	tc.Notify(step.msg, effect.WithIcon(step.icon))
	sleep(tc, time.Second/3)
}
return Emoji("🎉"), nil`,
			build: buildNotify,
		},
		{
			Name:  "nested",
			Title: "Nested Tasks",
			Description: "Runs two child tasks one after the other. Resetting the parent " +
				"resets both children.",
			Code: `user, err := fetchUser.Exec(tc)
if err != nil {
	return "", err
}
orders, err := fetchOrders.Exec(tc)
if err != nil {
	return "", err
}
return fmt.Sprintf("%s has %d orders", user, len(orders)), nil`,
			build: buildNested,
		},
		{
			Name:  "parallel",
			Title: "Parallel Tasks",
			Description: "Fetches three temperatures at once. The first failure cancels " +
				"the others.",
			Code: `g, gctx := errgroup.WithContext(tc)
for i, child := range children {
	g.Go(func() error {
		t, err := child.Exec(tc.WithContext(gctx))
		out[i] = t
		return err
	})
}
return out, g.Wait()`,
			build: buildParallel,
		},
		{
			Name:        "temperature",
			Title:       "Custom Rendering",
			Description: "Returns a `Temperature`, which renders itself as `21.5°`.",
			Code: `effect.New("temperature", func(tc *effect.TaskContext) (Temperature, error) {
	sleep(tc, time.Second)
	return Temperature{Value: 21.5, Location: "London"}, nil
})`,
			build: buildTemperature,
		},
	}
}

func buildSimple(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	return effect.New("simple", func(tc *effect.TaskContext) (any, error) {
		if err := sleep(tc, step); err != nil {
			return nil, err
		}
		return "Success!", nil
	}, opts...)
}

func buildFailure(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	return effect.New("failure", func(tc *effect.TaskContext) (any, error) {
		if err := sleep(tc, step/2); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("fetch forecast: %w", ErrUpstream)
	}, opts...)
}

func buildDefect(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	return effect.New("defect", func(tc *effect.TaskContext) (any, error) {
		if err := sleep(tc, step/2); err != nil {
			return nil, err
		}
		panic("boom")
	}, opts...)
}

var progressSteps = []struct{ msg, icon string }{
	{"Connecting", "🔌"},
	{"Downloading", "⬇️"},
	{"Parsing", "🧩"},
}

func buildNotify(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	return effect.New("notify", func(tc *effect.TaskContext) (any, error) {
		for _, s := range progressSteps {
			tc.Notify(s.msg, effect.WithIcon(s.icon))
			if err := sleep(tc, step/3); err != nil {
				return nil, err
			}
		}
		return Emoji("🎉"), nil
	}, opts...)
}

func buildNested(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	fetchUser := effect.New("fetch-user", func(tc *effect.TaskContext) (string, error) {
		if err := sleep(tc, step/2); err != nil {
			return "", err
		}
		return "ada", nil
	}, opts...)
	fetchOrders := effect.New("fetch-orders", func(tc *effect.TaskContext) (Array[string], error) {
		if err := sleep(tc, step/2); err != nil {
			return nil, err
		}
		return Array[string]{"book", "lamp", "tea"}, nil
	}, opts...)

	return effect.New("nested", func(tc *effect.TaskContext) (any, error) {
		user, err := fetchUser.Exec(tc)
		if err != nil {
			return nil, err
		}
		orders, err := fetchOrders.Exec(tc)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%s has %d orders", user, len(orders)), nil
	}, opts...)
}

var cities = []Temperature{
	{Location: "London", Value: 12},
	{Location: "Tokyo", Value: 18.5},
	{Location: "Lima", Value: 24},
}

func buildParallel(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	children := make([]*effect.Controller[Temperature], len(cities))
	for i, city := range cities {
		delay := step * time.Duration(i+1) / time.Duration(len(cities))
		children[i] = effect.New("fetch-"+city.Location, func(tc *effect.TaskContext) (Temperature, error) {
			if err := sleep(tc, delay); err != nil {
				return Temperature{}, err
			}
			return city, nil
		}, opts...)
	}

	return effect.New("parallel", func(tc *effect.TaskContext) (any, error) {
		g, gctx := errgroup.WithContext(tc)
		out := make(TemperatureSeries, len(children))
		for i, child := range children {
			g.Go(func() (err error) {
				// A dying child must not take the process down from a
				// goroutine; hand the defect back to the parent instead.
				defer func() {
					if r := recover(); r != nil {
						err = effect.Die(r)
					}
				}()
				t, err := child.Exec(tc.WithContext(gctx))
				out[i] = t
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	}, opts...)
}

func buildTemperature(step time.Duration, opts []effect.Option) *effect.Controller[any] {
	return effect.New("temperature", func(tc *effect.TaskContext) (any, error) {
		if err := sleep(tc, step); err != nil {
			return nil, err
		}
		return Temperature{Value: 21.5, Location: "London"}, nil
	}, opts...)
}
