package controller

import (
	"context"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	Redis  *redis.Client
	Tokens *service.AdminTokenService
}

// NewHealthController takes a nil redis client when the token store is in memory.
func NewHealthController(rdb *redis.Client, tokens *service.AdminTokenService) *HealthController {
	return &HealthController{Redis: rdb, Tokens: tokens}
}

// @Summary Health check
// @Description Reports the gateway, its token store and the admin token state
// @Tags System
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}

	if c.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
		components["redis"] = "up"
	}

	status, err := c.Tokens.Status(ctx.Request.Context())
	if err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Token store unavailable")
		return
	}
	components["adminToken"] = status

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
