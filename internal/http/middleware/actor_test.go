package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestActor_ParsesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Actor())
	r.GET("/who", func(c *gin.Context) {
		if _, ok := ActorFrom(c); !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, actorKey(c))
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"absent", "", http.StatusOK, "anonymous"},
		{"positive", "42", http.StatusOK, "chat:42"},
		{"negative group chat", " -1001 ", http.StatusOK, "chat:-1001"},
		{"zero", "0", http.StatusBadRequest, ""},
		{"garbage", "abc", http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tc.header != "" {
				req.Header.Set(HeaderChatID, tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.code {
				t.Fatalf("status = %d; want %d", w.Code, tc.code)
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Fatalf("body = %q; want %q", w.Body.String(), tc.body)
			}
		})
	}
}

func TestKeyByActorOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	if got := KeyByActorOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("expected ip key, got %q", got)
	}
	c.Set(ctxKeyActor, int64(7))
	if got := KeyByActorOrIP()(c); got != "chat:7" {
		t.Fatalf("expected chat key, got %q", got)
	}
	c.Set(ctxKeyActor, "7")
	if _, ok := ActorFrom(c); ok {
		t.Fatalf("non-int64 actor must be ignored")
	}
}
