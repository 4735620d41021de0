package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.IsAllowed("a"))
	assert.True(t, rl.IsAllowed("a"))
	assert.False(t, rl.IsAllowed("a"))
	assert.Equal(t, 0, rl.GetRemainingRequests("a"))
	assert.True(t, rl.IsAllowed("b"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, 2, rl.GetRemainingRequests("a"))
	assert.True(t, rl.IsAllowed("a"))

	rl.Reset("a")
	assert.Equal(t, 2, rl.GetRemainingRequests("a"))
}
