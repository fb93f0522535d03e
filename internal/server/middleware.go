package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	actordomain "github.com/craftline/projectledger/internal/actor/domain"
	"github.com/gin-gonic/gin"
)

// ActorMiddleware lifts the acting user's identity from the X-Actor-Id
// header into the request context. A missing or malformed header is not an
// error; actor resolution falls back to the first active admin.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-Actor-Id"))
		if raw != "" {
			if id, err := snowflake.ParseString(raw); err == nil {
				ctx := actordomain.WithActorID(c.Request.Context(), id)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return 0, false
	}
	return id, true
}
