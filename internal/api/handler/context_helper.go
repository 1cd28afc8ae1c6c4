package handler

import (
	"github.com/gin-gonic/gin"

	"turnario/backend/internal/api/middleware"
	"turnario/backend/internal/model"
)

// actorFromContext returns the authenticated operator, or the system
// actor on the unauthenticated operational surface.
func actorFromContext(c *gin.Context) model.Actor {
	v, ok := c.Get(middleware.ActorKey)
	if !ok {
		return model.SystemActor("local")
	}
	actor, ok := v.(model.Actor)
	if !ok {
		return model.SystemActor("local")
	}
	return actor
}
