// Package core provides the login rate limiter.
package core

import (
	"sync"
	"time"
)

// LoginLimiter tracks failed login attempts in memory and temporarily
// blocks keys that accumulate too many failures. State is process-local
// and lost on restart; lockouts reset with the process. For a
// single-instance deployment that is the accepted trade-off.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord
	limit    int
	window   time.Duration
	now      func() time.Time
}

type attemptRecord struct {
	count        int
	blockedUntil time.Time
}

// NewLoginLimiter creates a limiter that locks a key for window after
// limit consecutive failures.
func NewLoginLimiter(limit int, window time.Duration) *LoginLimiter {
	if limit < 1 {
		limit = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &LoginLimiter{
		attempts: make(map[string]*attemptRecord),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// LoginKeys derives the tracked keys for one login attempt: the client
// address alone, the submitted identifier alone, and the combination.
// Blocking on any single dimension catches both one source probing many
// accounts and many sources probing one account.
func LoginKeys(ip, email string) []string {
	keys := []string{ip}
	if email != "" {
		keys = append(keys, "email:"+email, ip+"|"+email)
	}
	return keys
}

// Blocked reports whether any of the keys is currently locked out.
// Expired lockouts are evicted on the way through.
func (l *LoginLimiter) Blocked(keys []string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	blocked := false
	for _, key := range keys {
		rec, ok := l.attempts[key]
		if !ok {
			continue
		}
		if rec.blockedUntil.IsZero() {
			continue
		}
		if rec.blockedUntil.After(now) {
			blocked = true
			continue
		}
		// Lockout expired: lazily evict.
		delete(l.attempts, key)
	}
	return blocked
}

// RecordOutcome updates all keys with the attempt's outcome. Success
// clears every key immediately; failure increments each counter and
// locks the key once it reaches the limit. The caller passes the real
// authentication outcome rather than having the limiter infer it from
// the response.
func (l *LoginLimiter) RecordOutcome(keys []string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, key := range keys {
		if success {
			delete(l.attempts, key)
			continue
		}
		rec, ok := l.attempts[key]
		if !ok {
			rec = &attemptRecord{}
			l.attempts[key] = rec
		}
		rec.count++
		if rec.count >= l.limit {
			rec.blockedUntil = now.Add(l.window)
		}
	}
}

// Window returns the lockout duration.
func (l *LoginLimiter) Window() time.Duration {
	return l.window
}

// SetClock injects a clock for tests.
func (l *LoginLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Len returns the number of live attempt records, for tests and
// introspection.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}
