package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"turnario/backend/internal/model"
	"turnario/backend/pkg/jwt"
	"turnario/backend/pkg/response"
)

const ActorKey = "actor"

// Auth validates the Bearer token and stores the operator identity in
// the request context.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, 40101, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 40102, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := manager.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, 40103, "token expired")
			} else {
				response.Unauthorized(c, 40104, "invalid token")
			}
			c.Abort()
			return
		}

		c.Set(ActorKey, model.Actor{
			ID:   claims.UserID,
			Name: claims.Name,
			Kind: model.ActorKindOperator,
		})
		c.Next()
	}
}
