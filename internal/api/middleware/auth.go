package middleware

import (
	"strings"

	"github.com/energyrank/energyrank-backend/internal/config"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware is the identity collaborator: it verifies the bearer token
// and reports the caller's user id plus an is-elevated flag. The elevated
// allowlist is captured once from config at construction; business logic
// downstream only ever sees the two context values.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	elevated := make(map[uint]struct{}, len(cfg.ElevatedUserIDs))
	for _, id := range cfg.ElevatedUserIDs {
		elevated[id] = struct{}{}
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		_, allowlisted := elevated[claims.UserID]
		c.Set("user_id", claims.UserID)
		c.Set("is_elevated", claims.Role == "admin" || allowlisted)
		c.Next()
	}
}

// ElevatedOnly guards admin-grade routes.
func ElevatedOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_elevated") {
			utils.SendForbidden(c, "Elevated access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
