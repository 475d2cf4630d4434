package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Unlimited(t *testing.T) {
	l := New("datasette", 0)

	start := time.Now()
	for range 50 {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "datasette", l.Name())
}

func TestLimiter_Paces(t *testing.T) {
	l := New("datasette", 20)

	start := time.Now()
	for range 3 {
		require.NoError(t, l.Wait(context.Background()))
	}
	// first token is immediate, the next two are 50ms apart
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := New("datasette", 0.001)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for datasette")
}
