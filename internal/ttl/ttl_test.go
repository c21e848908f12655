package ttl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualSource is a local fake; internal/testutil imports this package,
// so tests here roll their own to avoid the cycle.
type manualSource struct {
	now time.Time
}

func (s *manualSource) Now() time.Time { return s.now }

func TestRef_AliveWithinTTL(t *testing.T) {
	src := &manualSource{now: time.Unix(1000, 0)}
	ref := NewRef(src, "ifa-proxy", time.Hour)

	v, ok := ref.Get()
	require.True(t, ok)
	assert.Equal(t, "ifa-proxy", v)
	assert.False(t, ref.Dead())
}

func TestRef_DeadAfterTTL(t *testing.T) {
	src := &manualSource{now: time.Unix(1000, 0)}
	ref := NewRef(src, 42, time.Minute)

	src.now = src.now.Add(time.Minute + time.Nanosecond)

	assert.True(t, ref.Dead())
	v, ok := ref.Get()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestRef_BoundaryIsStrict(t *testing.T) {
	// Exactly at time-of-death the ref is still alive; death requires
	// now to move strictly past it.
	src := &manualSource{now: time.Unix(1000, 0)}
	ref := NewRef(src, "v", time.Minute)

	src.now = src.now.Add(time.Minute)
	assert.False(t, ref.Dead())

	v, ok := ref.Get()
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSourceFunc(t *testing.T) {
	fixed := time.Unix(99, 0)
	var src Source = SourceFunc(func() time.Time { return fixed })
	assert.Equal(t, fixed, src.Now())
}

func TestSystemSourceMovesForward(t *testing.T) {
	a := System.Now()
	b := System.Now()
	assert.False(t, b.Before(a))
}
