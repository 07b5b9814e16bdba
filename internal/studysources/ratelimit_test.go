package studysources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	t.Run("creates limiter with specified rate and burst", func(t *testing.T) {
		rl := NewRateLimiter(10, 5)

		require.NotNil(t, rl)
		require.NotNil(t, rl.limiter)

		// Verify burst by allowing multiple requests
		for i := 0; i < 5; i++ {
			assert.True(t, rl.Allow(), "should allow request %d within burst", i+1)
		}
	})

	t.Run("creates limiter with PubMed rate (3 req/sec)", func(t *testing.T) {
		rl := NewRateLimiter(3, 3)

		require.NotNil(t, rl)
		// Should allow burst of 3
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow())
		}
		// 4th request should be denied immediately
		assert.False(t, rl.Allow())
	})

	t.Run("creates limiter with fractional rate", func(t *testing.T) {
		// 0.5 requests per second (1 request every 2 seconds)
		rl := NewRateLimiter(0.5, 1)

		require.NotNil(t, rl)
		assert.True(t, rl.Allow())
		assert.False(t, rl.Allow())
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("burst allows instant requests", func(t *testing.T) {
		rl := NewRateLimiter(100, 5)

		ctx := context.Background()
		start := time.Now()

		// All 5 burst requests should be nearly instant
		for i := 0; i < 5; i++ {
			err := rl.Wait(ctx)
			require.NoError(t, err)
		}

		elapsed := time.Since(start)
		assert.Less(t, elapsed, 50*time.Millisecond,
			"burst requests should be nearly instant, took %v", elapsed)
	})

	t.Run("waits for token after burst exhausted", func(t *testing.T) {
		// 10 requests per second = 100ms between requests
		rl := NewRateLimiter(10, 1)

		ctx := context.Background()

		// First request consumes the burst
		err := rl.Wait(ctx)
		require.NoError(t, err)

		start := time.Now()
		// Second request must wait for token replenishment
		err = rl.Wait(ctx)
		require.NoError(t, err)
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond,
			"should wait for token, waited only %v", elapsed)
	})

	t.Run("respects context deadline", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)

		// Exhaust the burst
		assert.True(t, rl.Allow())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		// Waiting for the next token needs ~1s but the deadline is 10ms.
		// rate.Limiter.Wait reports the deadline in its own error text
		// rather than returning context.DeadlineExceeded directly.
		err := rl.Wait(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deadline")
	})

	t.Run("returns immediately with canceled context", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)

		// Exhaust the burst
		assert.True(t, rl.Allow())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := rl.Wait(ctx)
		require.Error(t, err)
	})
}

func TestRateLimiter_SetRate(t *testing.T) {
	t.Run("updated rate applies to subsequent waits", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)

		// Exhaust the burst, then raise the rate so the next token
		// arrives quickly.
		assert.True(t, rl.Allow())
		rl.SetRate(100)

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		err := rl.Wait(ctx)
		require.NoError(t, err)
	})
}

func TestRateLimiter_SetBurst(t *testing.T) {
	t.Run("larger burst allows more immediate requests", func(t *testing.T) {
		rl := NewRateLimiter(1000, 1)

		assert.True(t, rl.Allow())
		assert.False(t, rl.Allow())

		rl.SetBurst(5)

		// Tokens replenish quickly at 1000/sec up to the new burst size.
		time.Sleep(20 * time.Millisecond)
		for i := 0; i < 5; i++ {
			assert.True(t, rl.Allow(), "request %d should fit the new burst", i+1)
		}
	})
}

func TestRateLimiter_Tokens(t *testing.T) {
	t.Run("reports available tokens", func(t *testing.T) {
		rl := NewRateLimiter(1, 3)

		assert.InDelta(t, 3.0, rl.Tokens(), 0.1)

		rl.Allow()
		assert.Less(t, rl.Tokens(), 3.0)
	})
}
