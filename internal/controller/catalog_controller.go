package controller

import (
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController manages the lookup lists courses refer to.
type CatalogController struct {
	CategoryService *service.CategoryService
	TeacherService  *service.TeacherService
}

func NewCatalogController(categories *service.CategoryService, teachers *service.TeacherService) *CatalogController {
	return &CatalogController{CategoryService: categories, TeacherService: teachers}
}

// GetCategories godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CatalogController) GetCategories(ctx *gin.Context) {
	categories, err := c.CategoryService.List(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body model.CategoryInput true "Category"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/categories [post]
func (c *CatalogController) CreateCategory(ctx *gin.Context) {
	var in model.CategoryInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	category, err := c.CategoryService.Create(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags Categories
// @Produce json
// @Param id query string true "Category ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "Category still has courses"
// @Router /api/categories [delete]
func (c *CatalogController) DeleteCategory(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.CategoryService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// GetTeachers godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Teacher}
// @Router /api/teachers [get]
func (c *CatalogController) GetTeachers(ctx *gin.Context) {
	teachers, err := c.TeacherService.List(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, teachers)
}

// CreateTeacher godoc
// @Summary Create a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param teacher body model.TeacherInput true "Teacher"
// @Success 201 {object} util.Response{data=model.Teacher}
// @Router /api/teachers [post]
func (c *CatalogController) CreateTeacher(ctx *gin.Context) {
	var in model.TeacherInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	teacher, err := c.TeacherService.Create(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, teacher)
}

// DeleteTeacher godoc
// @Summary Delete a teacher
// @Tags Teachers
// @Produce json
// @Param id query string true "Teacher ID"
// @Success 200 {object} util.Response
// @Router /api/teachers [delete]
func (c *CatalogController) DeleteTeacher(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.TeacherService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
