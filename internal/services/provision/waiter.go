package provision

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/retry"
)

// State is a step of the termination state machine.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateWaiting
	StateDone
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateWaiting:
		return "waiting"
	case StateDone:
		return "done"
	case StateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminator issues bulk termination requests.
type Terminator interface {
	TerminateInstances(ctx context.Context, ids []string) ([]domain.InstanceState, error)
}

// Waiter terminates a set of instances and blocks until the provider reports
// all of them terminated, or the attempt budget runs out.
//
// Every attempt re-issues termination for the full original list; EC2
// treats repeated termination of the same instance as a no-op that reports
// its current state.
type Waiter struct {
	terminator Terminator
	config     retry.Config
	sleep      retry.SleepFunc
	observe    func(State)
}

// WaiterOption customizes a Waiter.
type WaiterOption func(*Waiter)

// WithSleep replaces the wall-clock sleep between attempts.
func WithSleep(fn retry.SleepFunc) WaiterOption {
	return func(w *Waiter) {
		if fn != nil {
			w.sleep = fn
		}
	}
}

// WithObserver registers a callback invoked on every state transition.
func WithObserver(fn func(State)) WaiterOption {
	return func(w *Waiter) {
		w.observe = fn
	}
}

// NewWaiter creates a Waiter that polls through terminator using config.
func NewWaiter(terminator Terminator, config retry.Config, opts ...WaiterOption) *Waiter {
	w := &Waiter{
		terminator: terminator,
		config:     config,
		sleep:      retry.Sleep,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait drives the machine from Idle to Done or TimedOut. An empty ids slice
// reaches Done without calling the provider. Exhausting the attempts returns
// a *domain.TerminationTimeoutError listing the instances still pending.
func (w *Waiter) Wait(ctx context.Context, ids []string) error {
	log := clog.FromContext(ctx)

	w.enter(StateIdle)
	if len(ids) == 0 {
		log.Info("nothing to terminate")
		w.enter(StateDone)
		return nil
	}
	if err := w.config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	log.Info("terminating instances", "count", len(ids), "max_wait", w.config.Budget())

	for attempt := 1; ; attempt++ {
		w.enter(StateRequesting)
		log.Debug("requesting termination", "ids", ids, "attempt", attempt, "max_attempts", w.config.MaxAttempts)

		states, err := w.terminator.TerminateInstances(ctx, ids)
		if err != nil {
			return fmt.Errorf("terminate instances (attempt %d): %w", attempt, err)
		}

		w.enter(StateWaiting)
		pending := pendingInstances(ids, states)
		if len(pending) == 0 {
			log.Info("instances terminated", "count", len(ids), "attempts", attempt)
			w.enter(StateDone)
			return nil
		}

		for _, p := range pending {
			log.Info("waiting for instance termination", "id", p.ID, "state", p.State)
		}

		if attempt >= w.config.MaxAttempts {
			w.enter(StateTimedOut)
			return &domain.TerminationTimeoutError{
				Pending:  instanceIDs(pending),
				Attempts: attempt,
			}
		}

		if err := w.sleep(ctx, w.config.Delay); err != nil {
			return fmt.Errorf("waiting for termination: %w", err)
		}
	}
}

func (w *Waiter) enter(s State) {
	if w.observe != nil {
		w.observe(s)
	}
}

// pendingInstances returns, in request order, the instances whose reported
// state is not terminated. Instances missing from the response count as
// pending.
func pendingInstances(ids []string, states []domain.InstanceState) []domain.InstanceState {
	reported := make(map[string]string, len(states))
	for _, s := range states {
		reported[s.ID] = s.State
	}

	var pending []domain.InstanceState
	for _, id := range ids {
		state, ok := reported[id]
		if !ok {
			state = "unknown"
		}
		if state != domain.InstanceStateTerminated {
			pending = append(pending, domain.InstanceState{ID: id, State: state})
		}
	}
	return pending
}

func instanceIDs(states []domain.InstanceState) []string {
	ids := make([]string, len(states))
	for i, s := range states {
		ids[i] = s.ID
	}
	return ids
}
