package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	if k, ok := GetIdempotencyKey(c); k != "" || ok {
		t.Fatalf("expected no key")
	}
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false by default")
	}
	c.Set(ctxKeyIdemKey, 123)
	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatalf("non-string key must read as absent")
	}
	c.Set(ctxKeyIdemReplay, "yes")
	if IsReplay(c) {
		t.Fatalf("non-bool replay flag must read as false")
	}

	actor, _ := IdempotencyScope(c)
	if actor != anonymousActor {
		t.Fatalf("actor = %q; want %q", actor, anonymousActor)
	}
	c.Set(ctxKeyActor, int64(5))
	if actor, _ := IdempotencyScope(c); actor != "chat:5" {
		t.Fatalf("actor = %q; want chat:5", actor)
	}
}

func TestIdempotencyValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type call struct{ actor, scope, key string }
	var calls []call
	lookup := func(_ context.Context, actor, scope, key string, _ time.Time) (bool, error) {
		calls = append(calls, call{actor, scope, key})
		return key == "seen", nil
	}

	r := gin.New()
	r.Use(Actor())
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, lookup))
	r.POST("/works", func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{"key": key, "replay": IsReplay(c), "bypass": IsRateBypass(c)})
	})

	do := func(key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/works", nil)
		req.Header.Set(HeaderChatID, "99")
		if key != "" {
			req.Header.Set(HeaderIdempotencyKey, key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusOK || len(calls) != 0 {
		t.Fatalf("no header: status %d, %d lookups", w.Code, len(calls))
	}

	for _, bad := range []string{"has space", strings.Repeat("k", 17)} {
		w := do(bad)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: expected 400 bad_idempotency_key, got %d %s", bad, w.Code, w.Body.String())
		}
	}

	var body struct {
		Key    string `json:"key"`
		Replay bool   `json:"replay"`
		Bypass bool   `json:"bypass"`
	}
	w := do("fresh")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Key != "fresh" || body.Replay || body.Bypass {
		t.Fatalf("fresh key: %+v", body)
	}

	w = do("seen")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Replay || !body.Bypass {
		t.Fatalf("seen key should be a replay: %+v", body)
	}

	last := calls[len(calls)-1]
	if last.actor != "chat:99" || last.scope != "POST /works" || last.key != "seen" {
		t.Fatalf("lookup called with %+v", last)
	}
}
