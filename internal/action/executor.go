package action

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds actions by name.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewRegistry creates a registry with the given actions.
func NewRegistry(actions ...Action) (*Registry, error) {
	r := &Registry{actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an action. Names must be unique.
func (r *Registry) Register(a Action) error {
	name := a.Name()
	if name == "" {
		return fmt.Errorf("register action: %w: empty name", ErrInvalidCall)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicate)
	}
	r.actions[name] = a
	return nil
}

// Get looks up an action by name.
func (r *Registry) Get(name string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Names returns registered action names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Executor runs calls against a registry.
type Executor struct {
	registry *Registry
	logger   *slog.Logger
}

// NewExecutor creates an executor.
func NewExecutor(registry *Registry, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{registry: registry, logger: logger}
}

// Actions lists registered actions.
func (e *Executor) Actions() []Info {
	names := e.registry.Names()
	out := make([]Info, len(names))
	for i, n := range names {
		out[i] = Info{Name: n}
	}
	return out
}

// Run invokes the action named by call.NextAction.
// Errors are *ActionError wrapping ErrActionNotFound, ErrRejected or ErrInvalidCall.
func (e *Executor) Run(ctx context.Context, call Call) (*Response, error) {
	if call.NextAction == "" {
		return nil, &ActionError{Err: fmt.Errorf("%w: next_action is required", ErrInvalidCall)}
	}

	a, ok := e.registry.Get(call.NextAction)
	if !ok {
		e.logger.Warn("unknown action requested", "action", call.NextAction)
		return nil, &ActionError{ActionName: call.NextAction, Err: ErrActionNotFound}
	}

	tracker := call.Tracker
	if tracker == nil {
		tracker = &Tracker{}
	}
	if tracker.SenderID == "" {
		tracker.SenderID = call.SenderID
	}

	dispatcher := NewCollectingDispatcher()
	events, err := a.Run(ctx, dispatcher, tracker, call.Domain)
	if err != nil {
		e.logger.Warn("action failed", "action", call.NextAction, "sender_id", tracker.SenderID, "error", err)
		return nil, &ActionError{ActionName: call.NextAction, Err: err}
	}

	if events == nil {
		events = []Event{}
	}

	e.logger.Debug("action finished",
		"action", call.NextAction,
		"sender_id", tracker.SenderID,
		"events", len(events),
	)

	return &Response{
		Events:    events,
		Responses: dispatcher.Messages(),
	}, nil
}
