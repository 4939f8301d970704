package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorKey is the key used to store the acting user's id in the context.
const actorKey = contextKey("actorID")

// defaultActor is recorded in audit fields when no actor header is present.
const defaultActor = "anonymous"

// ActorMiddleware captures the caller identity for audit fields. The
// application runs without sessions; callers identify themselves through
// the X-Actor-ID header and the gateway in front is expected to vouch
// for it. Requests without the header are attributed to fallbackActor.
func ActorMiddleware(fallbackActor string) gin.HandlerFunc {
	if fallbackActor == "" {
		fallbackActor = defaultActor
	}
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor-ID")
		if actor == "" {
			actor = fallbackActor
		}
		c.Set(string(actorKey), actor)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), actorKey, actor))
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user's id from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		if v, ok := c.Request.Context().Value(actorKey).(string); ok {
			return v
		}
		return defaultActor
	}
	actor, ok := actorVal.(string)
	if !ok {
		return defaultActor
	}
	return actor
}
