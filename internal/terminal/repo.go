package terminal

import (
	"context"
	"encoding/json"
	"fmt"

	"effectsolutions/internal/logging"
)

const (
	DefaultStorageKey     = "effect-solutions-tasks-demo"
	DefaultInitializedKey = "effect-solutions-tasks-initialized"
)

// Repo stores a TaskList under one key of a Store.
type Repo struct {
	store          Store
	storageKey     string
	initializedKey string
	log            *logging.Logger
}

// RepoOption configures a Repo.
type RepoOption func(*Repo)

// WithKeys overrides the storage and initialised-marker keys. Empty values
// keep the defaults.
func WithKeys(storageKey, initializedKey string) RepoOption {
	return func(r *Repo) {
		if storageKey != "" {
			r.storageKey = storageKey
		}
		if initializedKey != "" {
			r.initializedKey = initializedKey
		}
	}
}

// NewRepo creates a repo over store.
func NewRepo(store Store, opts ...RepoOption) *Repo {
	r := &Repo{
		store:          store,
		storageKey:     DefaultStorageKey,
		initializedKey: DefaultInitializedKey,
		log:            logging.Get(logging.CategoryStore),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// load returns the stored list. The first load against a fresh store seeds
// the default tasks. Any read or decode failure yields the empty list.
func (r *Repo) load(ctx context.Context) TaskList {
	list, err := r.loadOrSeed(ctx)
	if err != nil {
		r.log.Warn("task list unreadable, using empty list: %v", err)
		return TaskList{}
	}
	return list
}

func (r *Repo) loadOrSeed(ctx context.Context) (TaskList, error) {
	initialized, err := r.store.Has(ctx, r.initializedKey)
	if err != nil {
		return TaskList{}, err
	}
	if !initialized {
		if err := r.put(ctx, r.initializedKey, TaskList{}); err != nil {
			return TaskList{}, err
		}
		seed := DefaultTasks()
		if err := r.put(ctx, r.storageKey, seed); err != nil {
			return TaskList{}, err
		}
		r.log.Debug("seeded %d default tasks", len(seed.Tasks))
		return seed, nil
	}

	data, ok, err := r.store.Get(ctx, r.storageKey)
	if err != nil || !ok {
		return TaskList{}, err
	}
	var list TaskList
	if err := json.Unmarshal(data, &list); err != nil {
		return TaskList{}, fmt.Errorf("decode %s: %w", r.storageKey, err)
	}
	return list, nil
}

func (r *Repo) put(ctx context.Context, key string, list TaskList) error {
	if list.Tasks == nil {
		list.Tasks = []Task{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.store.Set(ctx, key, data)
}

func (r *Repo) save(ctx context.Context, list TaskList) error {
	if err := r.put(ctx, r.storageKey, list); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// List returns pending tasks, or every task when all is set.
func (r *Repo) List(ctx context.Context, all bool) []Task {
	list := r.load(ctx)
	if all {
		return list.Tasks
	}
	return list.Pending()
}

// Add appends a task and persists the list.
func (r *Repo) Add(ctx context.Context, text string) (Task, error) {
	list, task, err := r.load(ctx).Add(text)
	if err != nil {
		return Task{}, err
	}
	return task, r.save(ctx, list)
}

// Toggle flips a task's done flag. It returns ErrTaskNotFound for unknown ids.
func (r *Repo) Toggle(ctx context.Context, id int) (Task, error) {
	list, task, err := r.load(ctx).Toggle(id)
	if err != nil {
		return Task{}, err
	}
	return task, r.save(ctx, list)
}

// Clear removes every task.
func (r *Repo) Clear(ctx context.Context) error {
	return r.save(ctx, TaskList{})
}
