package service

import (
	"sync"
	"time"
)

// Limiter defaults. Five failures inside a fifteen-minute window lock the
// identifier out for ten minutes.
const (
	defaultMaxAttempts  = 5
	defaultWindow       = 15 * time.Minute
	defaultLockDuration = 10 * time.Minute
)

// LoginLimiterOptions groups construction parameters for LoginLimiter.
// Zero values select the defaults above.
type LoginLimiterOptions struct {
	MaxAttempts  int
	Window       time.Duration
	LockDuration time.Duration
	Now          func() time.Time
}

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LoginLimiter is an in-memory per-identifier failed-login counter. State
// is process-local and lost on restart; persistent lockout is out of scope.
type LoginLimiter struct {
	mu           sync.Mutex
	attempts     map[string]*attemptState
	maxAttempts  int
	window       time.Duration
	lockDuration time.Duration
	now          func() time.Time
}

// NewLoginLimiter constructs a LoginLimiter.
func NewLoginLimiter(opts LoginLimiterOptions) *LoginLimiter {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.LockDuration <= 0 {
		opts.LockDuration = defaultLockDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LoginLimiter{
		attempts:     make(map[string]*attemptState),
		maxAttempts:  opts.MaxAttempts,
		window:       opts.Window,
		lockDuration: opts.LockDuration,
		now:          opts.Now,
	}
}

// Locked returns how long the identifier remains locked out, or zero when
// login attempts are allowed.
func (l *LoginLimiter) Locked(identifier string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.attempts[identifier]
	if !ok {
		return 0
	}
	now := l.now()
	if !now.Before(state.lockedUntil) {
		return 0
	}
	return state.lockedUntil.Sub(now)
}

// RecordFailure counts a failed attempt and returns the remaining attempts
// before lockout. The window restarts when the previous one has elapsed.
func (l *LoginLimiter) RecordFailure(identifier string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.attempts[identifier]
	if !ok || now.Sub(state.firstAttempt) > l.window {
		state = &attemptState{firstAttempt: now}
		l.attempts[identifier] = state
	}

	state.count++
	if state.count >= l.maxAttempts {
		state.lockedUntil = now.Add(l.lockDuration)
		state.count = l.maxAttempts
	}

	remaining := l.maxAttempts - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Reset clears the attempt state after a successful login.
func (l *LoginLimiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, identifier)
}
