package command

import (
	"context"
	"sync"

	"github.com/roach88/linkback/internal/logging"
)

// Runner executes commands on worker goroutines, deduplicating by key:
// while a command for a key is in flight, submissions with that key
// join it instead of starting a second execution.
type Runner[T any] struct {
	log *logging.Logger

	mu       sync.Mutex
	inflight map[string]*Command[T]
	wg       sync.WaitGroup
}

// NewRunner creates an idle runner.
func NewRunner[T any](log *logging.Logger) *Runner[T] {
	return &Runner[T]{
		log:      log.Tagged("command"),
		inflight: make(map[string]*Command[T]),
	}
}

// Submit schedules cmd for execution off the calling goroutine. When a
// command with the same key is already in flight, cmd's receivers join
// it and no new execution starts; all of them observe the in-flight
// command's eventual outcome.
func (r *Runner[T]) Submit(ctx context.Context, cmd *Command[T]) {
	r.mu.Lock()
	if existing, ok := r.inflight[cmd.Key()]; ok {
		existing.Join(cmd)
		r.mu.Unlock()
		r.log.Verbosef("joined in-flight command %s", cmd.Key())
		return
	}
	r.inflight[cmd.Key()] = cmd
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		result, err := cmd.Execute(ctx)

		// Remove before delivering so a submission racing with
		// delivery starts fresh instead of joining a finished command.
		r.mu.Lock()
		delete(r.inflight, cmd.Key())
		r.mu.Unlock()

		if err != nil {
			r.log.Verbosef("command %s failed: %v", cmd.Key(), err)
			cmd.deliverFailure()
			return
		}
		cmd.deliverSuccess(result)
	}()
}

// Cancel cancels the in-flight command for key, if any. The underlying
// work is not interrupted; its result is simply never delivered.
func (r *Runner[T]) Cancel(key string) bool {
	r.mu.Lock()
	cmd, ok := r.inflight[key]
	r.mu.Unlock()
	if !ok {
		return false
	}
	cmd.Cancel()
	return true
}

// Wait blocks until every submitted command has finished executing and
// delivering. Used by tests and orderly shutdown.
func (r *Runner[T]) Wait() {
	r.wg.Wait()
}
