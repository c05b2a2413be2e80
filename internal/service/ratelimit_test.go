package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginKeys(t *testing.T) {
	t.Run("ip and email", func(t *testing.T) {
		keys := LoginKeys("10.0.0.1", "a@x.com")
		assert.Equal(t, []string{"10.0.0.1", "email:a@x.com", "10.0.0.1|a@x.com"}, keys)
	})

	t.Run("missing email tracks ip only", func(t *testing.T) {
		keys := LoginKeys("10.0.0.1", "")
		assert.Equal(t, []string{"10.0.0.1"}, keys)
	})
}

func TestLoginLimiterLockout(t *testing.T) {
	l := NewLoginLimiter(5, 10*time.Minute)
	keys := LoginKeys("10.0.0.1", "a@x.com")

	// first 4 failures accumulate without blocking
	for i := 0; i < 4; i++ {
		assert.False(t, l.Blocked(keys), "attempt %d should not be blocked", i+1)
		l.RecordOutcome(keys, false)
	}
	assert.False(t, l.Blocked(keys))

	// 5th failure locks
	l.RecordOutcome(keys, false)
	assert.True(t, l.Blocked(keys))

	// still locked regardless of what the 6th attempt would send
	assert.True(t, l.Blocked(keys))
}

func TestLoginLimiterSuccessClears(t *testing.T) {
	l := NewLoginLimiter(5, 10*time.Minute)
	keys := LoginKeys("10.0.0.1", "a@x.com")

	for i := 0; i < 4; i++ {
		l.RecordOutcome(keys, false)
	}
	l.RecordOutcome(keys, true)

	assert.Equal(t, 0, l.Len(), "success must drop the attempt records")

	// counting restarts from zero
	for i := 0; i < 4; i++ {
		l.RecordOutcome(keys, false)
	}
	assert.False(t, l.Blocked(keys))
}

func TestLoginLimiterExpiry(t *testing.T) {
	l := NewLoginLimiter(5, 10*time.Minute)
	keys := LoginKeys("10.0.0.1", "a@x.com")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		l.RecordOutcome(keys, false)
	}
	assert.True(t, l.Blocked(keys))

	// one second past the window the lock expires and records evict
	now = now.Add(10*time.Minute + time.Second)
	assert.False(t, l.Blocked(keys))
	assert.Equal(t, 0, l.Len(), "expired records are evicted on lookup")
}

func TestLoginLimiterKeyComposition(t *testing.T) {
	t.Run("ip lock blocks other emails from same ip", func(t *testing.T) {
		l := NewLoginLimiter(5, 10*time.Minute)
		for i := 0; i < 5; i++ {
			l.RecordOutcome(LoginKeys("10.0.0.1", "a@x.com"), false)
		}

		assert.True(t, l.Blocked(LoginKeys("10.0.0.1", "b@x.com")))
	})

	t.Run("email lock blocks same email from other ips", func(t *testing.T) {
		l := NewLoginLimiter(5, 10*time.Minute)
		for i := 0; i < 5; i++ {
			l.RecordOutcome(LoginKeys("10.0.0.1", "a@x.com"), false)
		}

		assert.True(t, l.Blocked(LoginKeys("192.168.1.9", "a@x.com")))
	})

	t.Run("unrelated ip and email stay clear", func(t *testing.T) {
		l := NewLoginLimiter(5, 10*time.Minute)
		for i := 0; i < 5; i++ {
			l.RecordOutcome(LoginKeys("10.0.0.1", "a@x.com"), false)
		}

		assert.False(t, l.Blocked(LoginKeys("192.168.1.9", "b@x.com")))
	})
}

func TestLoginLimiterDefaults(t *testing.T) {
	l := NewLoginLimiter(0, 0)
	assert.Equal(t, 10*time.Minute, l.Window())

	keys := LoginKeys("10.0.0.1", "")
	for i := 0; i < 5; i++ {
		l.RecordOutcome(keys, false)
	}
	assert.True(t, l.Blocked(keys), "default limit is 5 attempts")
}
