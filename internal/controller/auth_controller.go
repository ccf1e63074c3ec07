package controller

import (
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthController exposes the admin token cache for operators.
type AuthController struct {
	TokenService *service.AdminTokenService
}

func NewAuthController(tokenService *service.AdminTokenService) *AuthController {
	return &AuthController{TokenService: tokenService}
}

// RefreshToken godoc
// @Summary Log in to the backend again
// @Description Drops the cached admin token and acquires a new one
// @Tags Auth
// @Produce json
// @Success 200 {object} util.Response{data=service.TokenStatus}
// @Failure 401 {object} util.Response
// @Router /api/auth/token/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	if err := c.TokenService.Clear(reqCtx); err != nil {
		util.Fail(ctx, err)
		return
	}
	if _, err := c.TokenService.Token(reqCtx); err != nil {
		util.Fail(ctx, err)
		return
	}
	status, err := c.TokenService.Status(reqCtx)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// TokenStatus godoc
// @Summary Admin token state
// @Tags Auth
// @Produce json
// @Success 200 {object} util.Response{data=service.TokenStatus}
// @Router /api/auth/token/status [get]
func (c *AuthController) TokenStatus(ctx *gin.Context) {
	status, err := c.TokenService.Status(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, status)
}
