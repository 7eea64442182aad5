package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNewRateLimiter_BurstAndReuse(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, KeyByActorOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d; want 1", rl.burst)
	}
	if rl.bucket("chat:1") != rl.bucket("chat:1") {
		t.Fatalf("expected the same limiter to be reused")
	}
	if rl.bucket("chat:1") == rl.bucket("chat:2") {
		t.Fatalf("chats must not share a bucket")
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1.0, 1, KeyByActorOrIP())
	rl.now = func() time.Time { return clock }

	active := rl.bucket("chat:active")
	clock = clock.Add(6 * time.Minute)
	_ = rl.bucket("chat:idle")

	// Within the idle period since the last sweep nothing is dropped.
	clock = clock.Add(3 * time.Minute)
	if rl.bucket("chat:active") != active {
		t.Fatalf("bucket dropped before the sweep")
	}

	// 17m after the first sweep: chat:idle idle 11m, chat:active idle 8m.
	clock = clock.Add(8 * time.Minute)
	_ = rl.bucket("chat:other")
	rl.mu.Lock()
	_, hasIdle := rl.visitors["chat:idle"]
	_, hasActive := rl.visitors["chat:active"]
	n := len(rl.visitors)
	rl.mu.Unlock()
	if hasIdle || !hasActive || n != 2 {
		t.Fatalf("after sweep: idle=%v active=%v len=%d; want false true 2", hasIdle, hasActive, n)
	}
}

func TestRateLimiter_PerChatBucketsAndBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1.0, 1, KeyByActorOrIP())

	r := gin.New()
	r.Use(RequestID(), Actor())
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-Replay") != "" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	do := func(chat string, replay bool) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(HeaderChatID, chat)
		if replay {
			req.Header.Set("X-Test-Replay", "1")
		}
		r.ServeHTTP(w, req)
		return w
	}

	if w := do("1", false); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := do("1", false)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("second request: %d retry=%q", w.Code, w.Header().Get("Retry-After"))
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "too_many_requests" || body["request_id"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}

	if w := do("2", false); w.Code != http.StatusOK {
		t.Fatalf("another chat has its own bucket, got %d", w.Code)
	}
	if w := do("1", true); w.Code != http.StatusOK {
		t.Fatalf("replays are not charged, got %d", w.Code)
	}
}
