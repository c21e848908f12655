package command

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkback/internal/logging"
)

// recordingReceiver counts deliveries. Pointer identity makes distinct
// instances distinct receivers.
type recordingReceiver struct {
	mu      sync.Mutex
	results []string
	errors  int
}

func (r *recordingReceiver) OnResult(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordingReceiver) OnError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}

func (r *recordingReceiver) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...), r.errors
}

func noWork(ctx context.Context) (string, error) { return "", nil }

func TestCommand_DeliverSuccessFansOut(t *testing.T) {
	a, b := &recordingReceiver{}, &recordingReceiver{}
	cmd := New("check", noWork, a, b)

	cmd.deliverSuccess("link-1")

	results, errCount := a.snapshot()
	assert.Equal(t, []string{"link-1"}, results)
	assert.Zero(t, errCount)
	results, _ = b.snapshot()
	assert.Equal(t, []string{"link-1"}, results)
}

func TestCommand_DeliverFailureCarriesNoValue(t *testing.T) {
	a := &recordingReceiver{}
	cmd := New("check", noWork, a)

	cmd.deliverFailure()

	results, errCount := a.snapshot()
	assert.Empty(t, results)
	assert.Equal(t, 1, errCount)
}

func TestCommand_DeliveryHappensAtMostOnce(t *testing.T) {
	a := &recordingReceiver{}
	cmd := New("check", noWork, a)

	cmd.deliverSuccess("first")
	cmd.deliverSuccess("second")
	cmd.deliverFailure()

	results, errCount := a.snapshot()
	assert.Equal(t, []string{"first"}, results)
	assert.Zero(t, errCount)
}

func TestCommand_DuplicateReceiverCollapses(t *testing.T) {
	a := &recordingReceiver{}
	cmd := New("check", noWork, a, a)

	cmd.deliverSuccess("once")

	results, _ := a.snapshot()
	assert.Equal(t, []string{"once"}, results)
}

func TestCommand_JoinRequiresMatchingKey(t *testing.T) {
	a, b := &recordingReceiver{}, &recordingReceiver{}
	cmd := New("check", noWork, a)
	other := New("other", noWork, b)

	assert.False(t, cmd.Join(other))

	cmd.deliverSuccess("r")
	results, _ := b.snapshot()
	assert.Empty(t, results, "receiver of refused join must not be delivered")
}

func TestCommand_JoinMergesReceivers(t *testing.T) {
	a, b := &recordingReceiver{}, &recordingReceiver{}
	cmd := New("check", noWork, a)
	other := New("check", noWork, b)

	require.True(t, cmd.Join(other))
	cmd.deliverSuccess("r")

	resultsA, _ := a.snapshot()
	resultsB, _ := b.snapshot()
	assert.Equal(t, []string{"r"}, resultsA)
	assert.Equal(t, []string{"r"}, resultsB)
}

func TestCommand_CancelSuppressesDelivery(t *testing.T) {
	a := &recordingReceiver{}
	cmd := New("check", noWork, a)

	cmd.Cancel()
	assert.True(t, cmd.Cancelled())

	cmd.deliverSuccess("late")
	cmd.deliverFailure()

	results, errCount := a.snapshot()
	assert.Empty(t, results)
	assert.Zero(t, errCount)
}

func TestCommand_ExecuteRecoversPanic(t *testing.T) {
	cmd := New("check", func(ctx context.Context) (string, error) {
		panic("boom")
	})
	_, err := cmd.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestRunner_DeliversResult(t *testing.T) {
	a := &recordingReceiver{}
	r := NewRunner[string](logging.Nop())

	r.Submit(context.Background(), New("check", func(ctx context.Context) (string, error) {
		return "link-1", nil
	}, a))
	r.Wait()

	results, _ := a.snapshot()
	assert.Equal(t, []string{"link-1"}, results)
}

func TestRunner_DeliversError(t *testing.T) {
	a := &recordingReceiver{}
	r := NewRunner[string](logging.Nop())

	r.Submit(context.Background(), New("check", func(ctx context.Context) (string, error) {
		return "", errors.New("network down")
	}, a))
	r.Wait()

	results, errCount := a.snapshot()
	assert.Empty(t, results)
	assert.Equal(t, 1, errCount)
}

func TestRunner_ConcurrentSameKeyExecutesOnce(t *testing.T) {
	// The dedup property: N concurrent submissions of the same key
	// produce exactly one execution and every receiver sees its result.
	var executions atomic.Int32
	release := make(chan struct{})
	work := func(ctx context.Context) (string, error) {
		executions.Add(1)
		<-release
		return "shared", nil
	}

	r := NewRunner[string](logging.Nop())
	const callers = 8
	receivers := make([]*recordingReceiver, callers)

	r.Submit(context.Background(), New("check", work, &recordingReceiver{}))
	for i := range receivers {
		receivers[i] = &recordingReceiver{}
		r.Submit(context.Background(), New("check", work, receivers[i]))
	}
	close(release)
	r.Wait()

	assert.Equal(t, int32(1), executions.Load(), "same-key submissions must not execute twice")
	for i, rec := range receivers {
		results, errCount := rec.snapshot()
		assert.Equalf(t, []string{"shared"}, results, "receiver %d", i)
		assert.Zerof(t, errCount, "receiver %d", i)
	}
}

func TestRunner_SequentialSameKeyExecutesAgain(t *testing.T) {
	var executions atomic.Int32
	work := func(ctx context.Context) (string, error) {
		executions.Add(1)
		return "r", nil
	}

	r := NewRunner[string](logging.Nop())
	r.Submit(context.Background(), New("check", work, &recordingReceiver{}))
	r.Wait()
	r.Submit(context.Background(), New("check", work, &recordingReceiver{}))
	r.Wait()

	assert.Equal(t, int32(2), executions.Load())
}

func TestRunner_CancelInFlight(t *testing.T) {
	a := &recordingReceiver{}
	release := make(chan struct{})
	executed := make(chan struct{})

	r := NewRunner[string](logging.Nop())
	r.Submit(context.Background(), New("check", func(ctx context.Context) (string, error) {
		close(executed)
		<-release
		return "late", nil
	}, a))

	<-executed
	assert.True(t, r.Cancel("check"))
	close(release)
	r.Wait()

	// Work ran to completion but nothing was observable.
	results, errCount := a.snapshot()
	assert.Empty(t, results)
	assert.Zero(t, errCount)

	assert.False(t, r.Cancel("check"), "nothing left in flight")
}
