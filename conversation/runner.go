// Package conversation ties a thread store to the agent engine: one Run is
// one user turn against one persisted conversation.
package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/becomeliminal/concierge/assistant"
	"github.com/becomeliminal/concierge/engine"
	"github.com/becomeliminal/concierge/thread"
)

// Runner drives the engine for persisted conversation threads keyed by
// email. Re-running with the same email resumes the prior history.
type Runner struct {
	engine  *engine.Engine
	threads thread.Store
	model   string

	// locks serializes turns on the same thread; distinct emails proceed
	// independently.
	locks sync.Map // email -> *sync.Mutex
}

// Option configures the runner.
type Option func(*Runner)

// WithModel overrides the engine's default model for all turns.
func WithModel(model string) Option {
	return func(r *Runner) {
		r.model = model
	}
}

// New creates a runner over the given engine and thread store.
func New(eng *engine.Engine, threads thread.Store, opts ...Option) *Runner {
	r := &Runner{
		engine:  eng,
		threads: threads,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run handles one user turn: restore the thread, drive the agent graph to
// termination, persist the turn's transcript, and return the final answer.
func (r *Runner) Run(ctx context.Context, email, message string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	mu := r.lock(email)
	mu.Lock()
	defer mu.Unlock()

	history, err := r.threads.History(ctx, email)
	if err != nil {
		return "", fmt.Errorf("load thread %s: %w", email, err)
	}

	out, err := r.engine.Run(ctx, &engine.Input{
		UserMessage:  message,
		Email:        email,
		History:      history,
		SystemPrompt: assistant.SystemPrompt(email),
		Model:        r.model,
	})
	if err != nil {
		return "", err
	}

	if err := r.threads.Append(ctx, email, out.Transcript...); err != nil {
		return "", fmt.Errorf("persist thread %s: %w", email, err)
	}

	return out.Text, nil
}

func (r *Runner) lock(email string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(email, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
