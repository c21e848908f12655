// Package command provides a generic, cancellable, key-addressable
// unit of asynchronous work.
//
// Commands with the same key describe the same logical operation:
// concurrent requests are joined so the work function runs once and
// every collected receiver observes the single outcome. Cancellation
// is receiver-side only - in-flight work runs to completion but its
// result is discarded.
package command

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Receiver observes the outcome of a command. Exactly one of OnResult
// or OnError fires per delivery. OnError carries no value; errors are
// not distinguished by type at this layer.
type Receiver[T any] interface {
	OnResult(result T)
	OnError()
}

// Command is a single unit of work identified by a stable key.
// Identity is the key alone: two commands with equal keys describe the
// same logical operation.
type Command[T any] struct {
	key  string
	work func(ctx context.Context) (T, error)

	mu        sync.Mutex
	receivers []Receiver[T]
	cancelled bool
	delivered bool
}

// New creates a command. The work function runs off the submitting
// goroutine; see Runner.
func New[T any](key string, work func(ctx context.Context) (T, error), receivers ...Receiver[T]) *Command[T] {
	c := &Command[T]{key: key, work: work}
	for _, r := range receivers {
		c.addReceiver(r)
	}
	return c
}

// Key returns the stable key identifying this command's operation.
func (c *Command[T]) Key() string {
	return c.key
}

// Join merges other's receivers into this command. Only valid for a
// command with the same key; joins across keys are refused.
func (c *Command[T]) Join(other *Command[T]) bool {
	if other == nil || other.Key() != c.key {
		return false
	}
	other.mu.Lock()
	incoming := make([]Receiver[T], len(other.receivers))
	copy(incoming, other.receivers)
	other.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range incoming {
		c.addReceiverLocked(r)
	}
	return true
}

// Cancel clears all pending receivers and suppresses delivery. Work
// already in flight still runs to completion; its result is discarded.
func (c *Command[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receivers = nil
	c.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (c *Command[T]) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// Execute runs the work function on the calling goroutine. A panic in
// the work function is converted to an error.
func (c *Command[T]) Execute(ctx context.Context) (result T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command %s panicked: %v", c.key, p)
		}
	}()
	return c.work(ctx)
}

// deliverSuccess fires every receiver's result callback with the one
// produced value. Delivery happens at most once.
func (c *Command[T]) deliverSuccess(result T) {
	for _, r := range c.takeReceivers() {
		r.OnResult(result)
	}
}

// deliverFailure fires every receiver's error callback.
func (c *Command[T]) deliverFailure() {
	for _, r := range c.takeReceivers() {
		r.OnError()
	}
}

// takeReceivers snapshots and clears the receiver set, returning nil
// when the command was cancelled or already delivered.
func (c *Command[T]) takeReceivers() []Receiver[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelled || c.delivered {
		return nil
	}
	c.delivered = true
	rs := c.receivers
	c.receivers = nil
	return rs
}

func (c *Command[T]) addReceiver(r Receiver[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addReceiverLocked(r)
}

// addReceiverLocked appends r unless an equal receiver is already
// registered, preserving registration order.
func (c *Command[T]) addReceiverLocked(r Receiver[T]) {
	for _, existing := range c.receivers {
		if receiversEqual(existing, r) {
			return
		}
	}
	c.receivers = append(c.receivers, r)
}

// receiversEqual compares receivers by interface equality when their
// dynamic type supports it. Incomparable receivers are always distinct.
func receiversEqual[T any](a, b Receiver[T]) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// String summarizes the command for log output.
func (c *Command[T]) String() string {
	return fmt.Sprintf("Command{key=%s, cancelled=%t}", c.key, c.Cancelled())
}
