package controller

import (
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController handles the user and enrollment routes.
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// GetUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param search query string false "Matches name or email"
// @Param role query string false "Role filter"
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 401 {object} util.Response
// @Router /api/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	filter := service.UserFilter{
		Search: ctx.Query("search"),
		Role:   ctx.Query("role"),
	}
	users, err := c.UserService.GetUsers(ctx.Request.Context(), filter)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// GetStatistics godoc
// @Summary User statistics
// @Tags Users
// @Produce json
// @Success 200 {object} util.Response{data=model.UserStatistics}
// @Router /api/users/statistics [get]
func (c *UserController) GetStatistics(ctx *gin.Context) {
	stats, err := c.UserService.Statistics(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetEnrolledUsers godoc
// @Summary Users enrolled in a course
// @Description Answers with an empty list when the backend cannot tell
// @Tags Users
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users/enrolled [get]
func (c *UserController) GetEnrolledUsers(ctx *gin.Context) {
	courseID, err := requireQuery(ctx, "courseId")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	users, err := c.UserService.EnrolledUsers(ctx.Request.Context(), courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// Enroll godoc
// @Summary Enroll a user into a course
// @Description A user who is already enrolled counts as success with alreadyEnrolled set
// @Tags Users
// @Accept json
// @Produce json
// @Param body body model.EnrollInput true "Enrollment"
// @Success 200 {object} util.Response{data=model.EnrollResult}
// @Router /api/users/enroll [post]
func (c *UserController) Enroll(ctx *gin.Context) {
	var in model.EnrollInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	result, err := c.UserService.Enroll(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}
