package chat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRateLimiter_AdmitsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(5, zap.NewNop())

	for i := 0; i < 5; i++ {
		if !rl.Admit(1) {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if rl.Admit(1) {
		t.Error("request over the limit should be rejected")
	}
}

func TestRateLimiter_RejectedAttemptsNotRecorded(t *testing.T) {
	rl := NewRateLimiter(3, zap.NewNop())

	base := time.Now()
	rl.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		rl.Admit(7)
	}
	// Hammer the limiter; none of these should extend the window
	for i := 0; i < 10; i++ {
		if rl.Admit(7) {
			t.Fatal("expected rejection while window is full")
		}
	}

	// Once the first three requests age out, admission resets fully
	rl.now = func() time.Time { return base.Add(61 * time.Second) }
	for i := 0; i < 3; i++ {
		if !rl.Admit(7) {
			t.Fatalf("request %d after window elapsed should be admitted", i+1)
		}
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, zap.NewNop())

	base := time.Now()
	rl.now = func() time.Time { return base }
	rl.Admit(42)

	rl.now = func() time.Time { return base.Add(30 * time.Second) }
	rl.Admit(42)

	if rl.Admit(42) {
		t.Error("third request inside the window should be rejected")
	}

	// First timestamp falls out, second is still inside
	rl.now = func() time.Time { return base.Add(70 * time.Second) }
	if !rl.Admit(42) {
		t.Error("request should be admitted after oldest entry expired")
	}
	if rl.Admit(42) {
		t.Error("window should be full again")
	}
}

func TestRateLimiter_UsersAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, zap.NewNop())

	if !rl.Admit(1) {
		t.Fatal("first user should be admitted")
	}
	if !rl.Admit(2) {
		t.Error("second user should not be affected by the first user's quota")
	}
	if rl.Admit(1) {
		t.Error("first user should be over quota")
	}
}

func TestRateLimiter_ConcurrentAdmitsNeverOvercount(t *testing.T) {
	const limit = 50
	rl := NewRateLimiter(limit, zap.NewNop())

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Admit(99) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Errorf("expected exactly %d admitted, got %d", limit, admitted)
	}
}
