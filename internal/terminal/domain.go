package terminal

import (
	"errors"
	"slices"
)

var (
	// ErrTaskNotFound is returned when a task id matches nothing.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTask is returned when adding a task without text.
	ErrEmptyTask = errors.New("task text must not be empty")
)

// Task is one entry in the toy task list.
type Task struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Toggle returns a copy with Done flipped.
func (t Task) Toggle() Task {
	t.Done = !t.Done
	return t
}

// Status is "done" or "pending".
func (t Task) Status() string {
	if t.Done {
		return "done"
	}
	return "pending"
}

// TaskList is an ordered set of tasks. Its methods never modify the
// receiver; they return an updated list.
type TaskList struct {
	Tasks []Task `json:"tasks"`
}

// NextID is one more than the largest id, or 1 for an empty list.
func (l TaskList) NextID() int {
	next := 1
	for _, t := range l.Tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// Add appends a pending task.
func (l TaskList) Add(text string) (TaskList, Task, error) {
	if text == "" {
		return l, Task{}, ErrEmptyTask
	}
	task := Task{ID: l.NextID(), Text: text}
	tasks := append(slices.Clone(l.Tasks), task)
	return TaskList{Tasks: tasks}, task, nil
}

// Toggle flips the task with the given id.
func (l TaskList) Toggle(id int) (TaskList, Task, error) {
	i := slices.IndexFunc(l.Tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return l, Task{}, ErrTaskNotFound
	}
	tasks := slices.Clone(l.Tasks)
	tasks[i] = tasks[i].Toggle()
	return TaskList{Tasks: tasks}, tasks[i], nil
}

// Pending returns the tasks not yet done.
func (l TaskList) Pending() []Task {
	var out []Task
	for _, t := range l.Tasks {
		if !t.Done {
			out = append(out, t)
		}
	}
	return out
}

// DefaultTasks seeds a fresh store.
func DefaultTasks() TaskList {
	return TaskList{Tasks: []Task{
		{ID: 1, Text: "Run the agent-guided setup"},
		{ID: 2, Text: "Become effect-pilled"},
	}}
}
