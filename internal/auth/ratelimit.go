package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

// LoginLimiter locks out an IP+username pair after repeated failed logins.
// Counts live in memory and reset on restart.
type LoginLimiter struct {
	mu              sync.RWMutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// NewLoginLimiter starts a limiter configured from the auth settings.
// Zero values fall back to 5 attempts in 15m and a 30m lockout.
func NewLoginLimiter(cfg config.Auth) *LoginLimiter {
	maxAttempts := cfg.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	lockout := cfg.LockoutDuration
	if lockout <= 0 {
		lockout = 30 * time.Minute
	}

	rl := &LoginLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the background cleanup goroutine.
func (rl *LoginLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func makeKey(ip, username string) string {
	return ip + ":" + username
}

// Allow reports whether a login attempt may proceed and, if not, how long
// until the lockout expires.
func (rl *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	record, exists := rl.attempts[makeKey(ip, username)]
	if !exists {
		return true, 0
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}

	return true, 0
}

// RecordFailure counts a failed login and reports whether it triggered a
// lockout.
func (rl *LoginLimiter) RecordFailure(ip, username string) (bool, time.Duration) {
	key := makeKey(ip, username)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[key]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[key] = record
	}

	if now.Sub(record.firstAttempt) > rl.windowDuration {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++

	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}

	return false, 0
}

// RecordSuccess clears the failure record for a successful login.
func (rl *LoginLimiter) RecordSuccess(ip, username string) {
	rl.mu.Lock()
	delete(rl.attempts, makeKey(ip, username))
	rl.mu.Unlock()
}

func (rl *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *LoginLimiter) cleanup() {
	now := rl.now()
	expiry := rl.windowDuration + rl.lockoutDuration

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, record := range rl.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)

		if windowExpired && lockoutExpired {
			delete(rl.attempts, key)
		}
	}
}

// MaxLoginBodyBytes bounds a login request body. Credentials are capped
// well below it.
const MaxLoginBodyBytes = 4 << 10

// Middleware rejects locked-out login attempts before the handler runs.
// The username is peeked from the JSON body, which is restored for the
// handler. Bodies over MaxLoginBodyBytes are refused unread.
func (rl *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxLoginBodyBytes+1))
		if err != nil {
			abortJSON(c, http.StatusBadRequest, "bad_request", "Invalid request body")
			return
		}
		if len(body) > MaxLoginBodyBytes {
			abortJSON(c, http.StatusBadRequest, "bad_request", "Request body too large")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var creds struct {
			Username string `json:"username"`
		}
		if json.Unmarshal(body, &creds) != nil || creds.Username == "" {
			c.Next()
			return
		}

		if allowed, retryAfter := rl.Allow(c.ClientIP(), creds.Username); !allowed {
			AbortTooManyAttempts(c, retryAfter)
			return
		}

		c.Next()
	}
}

// AbortTooManyAttempts writes the 429 response with a Retry-After header.
func AbortTooManyAttempts(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	abortJSON(c, http.StatusTooManyRequests, "too_many_requests", "Too many login attempts")
}
