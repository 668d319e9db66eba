package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
)

// Action is the work a task performs. args is the argument list the task
// was invoked with; pre-tasks receive the same list.
type Action func(ctx context.Context, args []string) error

// Task is a named unit of work with optional pre-tasks.
type Task struct {
	Name    string
	Summary string
	Pre     []string
	Action  Action
}

// NotFoundError reports a task name missing from the registry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found in the collection", e.Name)
}

// Registry holds the available tasks and runs them with their pre-tasks.
type Registry struct {
	// Out receives progress messages. Defaults to os.Stdout.
	Out io.Writer

	tasks map[string]*Task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Register adds a task. Registering a duplicate or unnamed task is a
// programming error and panics, like registering a duplicate flag would.
func (r *Registry) Register(t *Task) {
	if t.Name == "" {
		panic("task: Register called with empty name")
	}
	if _, exists := r.tasks[t.Name]; exists {
		panic(fmt.Sprintf("task: duplicate registration of %q", t.Name))
	}
	r.tasks[t.Name] = t
}

// Get returns the named task.
func (r *Registry) Get(name string) (*Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Tasks returns all registered tasks sorted by name.
func (r *Registry) Tasks() []*Task {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Task, len(names))
	for i, name := range names {
		out[i] = r.tasks[name]
	}
	return out
}

// Run executes the named task after its pre-tasks, depth-first. Every
// task runs at most once per Run call, even when several tasks share a
// pre-task. A pre-task cycle is reported as an error instead of
// recursing forever.
func (r *Registry) Run(ctx context.Context, name string, args []string) error {
	return r.run(ctx, name, args, make(map[string]bool), make(map[string]bool))
}

func (r *Registry) run(ctx context.Context, name string, args []string, executed, inProgress map[string]bool) error {
	if executed[name] {
		return nil
	}
	t, ok := r.tasks[name]
	if !ok {
		return &NotFoundError{Name: name}
	}
	if inProgress[name] {
		return fmt.Errorf("task %q: pre-task cycle detected", name)
	}
	inProgress[name] = true
	defer delete(inProgress, name)

	for _, pre := range t.Pre {
		if err := r.run(ctx, pre, args, executed, inProgress); err != nil {
			return fmt.Errorf("pre-task of %q: %w", name, err)
		}
	}

	fmt.Fprintf(r.out(), "Executing task: %s with arguments %v\n", name, args)
	if err := t.Action(ctx, args); err != nil {
		return fmt.Errorf("task %q: %w", name, err)
	}

	executed[name] = true
	return nil
}

func (r *Registry) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}
