package controller

import (
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// GetCourses godoc
// @Summary List courses
// @Description Lists every course, or returns one course when id is given
// @Tags Courses
// @Produce json
// @Param id query string false "Course ID"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	if id := ctx.Query("id"); id != "" {
		course, err := c.CourseService.Get(ctx.Request.Context(), id)
		if err != nil {
			util.Fail(ctx, err)
			return
		}
		util.Success(ctx, course)
		return
	}

	courses, err := c.CourseService.List(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary Create a course
// @Description Accepts JSON, or multipart form data with an optional image file
// @Tags Courses
// @Accept json,mpfd
// @Produce json
// @Param course body model.CourseInput true "Course"
// @Param image formData file false "Cover image"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var in model.CourseInput
	if err := ctx.ShouldBind(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	image, err := optionalFile(ctx, "image")
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), in, image)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags Courses
// @Accept json,mpfd
// @Produce json
// @Param id query string true "Course ID"
// @Param course body model.CourseInput true "Course"
// @Param image formData file false "Cover image"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/courses [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	var in model.CourseInput
	if err := ctx.ShouldBind(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	image, err := optionalFile(ctx, "image")
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), id, in, image)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Courses
// @Produce json
// @Param id query string true "Course ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "Course still has sections or students"
// @Router /api/courses [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.CourseService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// BatchUpdateCourses godoc
// @Summary Update several courses
// @Description Updates run in parallel; each row reports its own outcome
// @Tags Courses
// @Accept json
// @Produce json
// @Param items body []model.CourseDetailsUpdate true "Rows"
// @Success 200 {object} util.Response{data=[]util.BatchResult}
// @Router /api/courses/batch [put]
func (c *CourseController) BatchUpdateCourses(ctx *gin.Context) {
	var items []model.CourseDetailsUpdate
	if err := ctx.ShouldBindJSON(&items); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	if len(items) == 0 {
		util.Fail(ctx, util.Required("items"))
		return
	}
	util.Success(ctx, c.CourseService.BatchUpdate(ctx.Request.Context(), items))
}
