package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"chat_id=123456789&k=3", "chat_id=[REDACTED:chat]&k=3"},
		{"q=ann@example.com", "q=[REDACTED:email]"},
		{"id=123e4567-e89b-12d3-a456-426614174000", "id=[REDACTED:id]"},
		{"call +1 212-555-1212", "call [REDACTED:phone]"},
		{"to=+15551234567&x=1", "to=[REDACTED:phone]&x=1"},
		{"+44 20 7946 0958", "[REDACTED:phone]"},
		{"q=systems&k=5", "q=systems&k=5"},
	}
	for _, tc := range tests {
		if got := redact(tc.in); got != tc.want {
			t.Fatalf("redact(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactingLogger_MasksAndScopes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Actor())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/mentors/:id", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/mentors/3?chat_id=555000111", nil)
	req.Header.Set(requestIDHeader, "rid-1")
	req.Header.Set(HeaderChatID, "555000111")
	req.Header.Set("X-Api-Key", "secret")
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, leaked := range []string{"555000111", "secret", "Bearer t"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), out)
	}
	var inner, access map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &inner); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &access); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if inner["request_id"] != "rid-1" || inner["path"] != "/mentors/:id" || inner["has_actor"] != true {
		t.Fatalf("scoped logger fields missing: %v", inner)
	}
	if access["level"] != "warn" || access["status"] != float64(404) {
		t.Fatalf("access line: %v", access)
	}
}
