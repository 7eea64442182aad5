// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the acting party of a request. The conversational front
// end calls the API on behalf of a chat and forwards that chat's numeric id
// in the X-Chat-ID header; downstream middleware (rate limiting, idempotency,
// access logs) keys on it.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderChatID carries the chat id the front end is acting for.
const HeaderChatID = "X-Chat-ID"

const ctxKeyActor = "actor.chat_id"

// Actor parses X-Chat-ID and stashes it in the Gin context. Requests without
// the header pass through anonymously; a malformed value is rejected with 400
// so that a typo cannot silently bypass per-chat limits.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderChatID))
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_request",
				"message":    "invalid " + HeaderChatID,
			})
			return
		}
		c.Set(ctxKeyActor, id)
		c.Next()
	}
}

// ActorFrom returns the chat id stored by Actor.
func ActorFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxKeyActor)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}

// actorKey renders the actor as a namespaced string ("chat:<id>"), or ""
// for anonymous requests.
func actorKey(c *gin.Context) string {
	if id, ok := ActorFrom(c); ok {
		return "chat:" + strconv.FormatInt(id, 10)
	}
	return ""
}
