package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	rateLimitWindow      = time.Minute
	inactiveUserLifetime = time.Hour
	cleanupInterval      = 10 * time.Minute
)

// userWindow tracks one user's request timestamps inside the trailing window
type userWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter admits or rejects requests based on a per-user sliding window
// of request timestamps. State lives only for the process lifetime.
type RateLimiter struct {
	windows map[int64]*userWindow
	mu      sync.RWMutex
	limit   int
	logger  *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute requests
// per user in any trailing 60-second window.
func NewRateLimiter(requestsPerMinute int, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[int64]*userWindow),
		limit:   requestsPerMinute,
		logger:  logger,
		now:     time.Now,
	}

	// Sweep users that went quiet so the map doesn't grow without bound
	go rl.cleanupInactiveUsers()

	return rl
}

// Admit reports whether the user may proceed. Admitted requests are recorded;
// rejected attempts are not, so hammering the endpoint does not extend the
// penalty.
func (rl *RateLimiter) Admit(userID int64) bool {
	rl.mu.Lock()
	window, exists := rl.windows[userID]
	if !exists {
		window = &userWindow{}
		rl.windows[userID] = window
	}
	rl.mu.Unlock()

	window.mu.Lock()
	defer window.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rateLimitWindow)

	// Purge entries that fell out of the window
	kept := window.timestamps[:0]
	for _, ts := range window.timestamps {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	window.timestamps = kept

	if len(window.timestamps) >= rl.limit {
		return false
	}

	window.timestamps = append(window.timestamps, now)
	return true
}

// cleanupInactiveUsers removes users with no requests in the last hour
func (rl *RateLimiter) cleanupInactiveUsers() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := rl.now().Add(-inactiveUserLifetime)

		for userID, window := range rl.windows {
			window.mu.Lock()
			n := len(window.timestamps)
			if n == 0 || window.timestamps[n-1].Before(cutoff) {
				delete(rl.windows, userID)
				rl.logger.Debug("cleaned up inactive user from rate limiter",
					zap.Int64("user_id", userID),
				)
			}
			window.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}
