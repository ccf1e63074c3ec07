package controller

import (
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// CurriculumController serves the course outline: sections, their lectures
// and the quizzes attached to lectures.
type CurriculumController struct {
	SectionService *service.SectionService
	LectureService *service.LectureService
	QuizService    *service.QuizService
}

func NewCurriculumController(sections *service.SectionService, lectures *service.LectureService, quizzes *service.QuizService) *CurriculumController {
	return &CurriculumController{SectionService: sections, LectureService: lectures, QuizService: quizzes}
}

// GetSections godoc
// @Summary List the sections of a course
// @Tags Sections
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Section}
// @Router /api/sections [get]
func (c *CurriculumController) GetSections(ctx *gin.Context) {
	courseID, err := requireQuery(ctx, "courseId")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	sections, err := c.SectionService.ListByCourse(ctx.Request.Context(), courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, sections)
}

// CreateSection godoc
// @Summary Create a section
// @Tags Sections
// @Accept json
// @Produce json
// @Param section body model.SectionInput true "Section"
// @Success 201 {object} util.Response{data=model.Section}
// @Router /api/sections [post]
func (c *CurriculumController) CreateSection(ctx *gin.Context) {
	var in model.SectionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	section, err := c.SectionService.Create(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// UpdateSection godoc
// @Summary Update a section
// @Tags Sections
// @Accept json
// @Produce json
// @Param id query string true "Section ID"
// @Param section body model.SectionInput true "Section"
// @Success 200 {object} util.Response{data=model.Section}
// @Router /api/sections [put]
func (c *CurriculumController) UpdateSection(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	var in model.SectionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	section, err := c.SectionService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// DeleteSection godoc
// @Summary Delete a section
// @Tags Sections
// @Produce json
// @Param id query string true "Section ID"
// @Success 200 {object} util.Response
// @Router /api/sections [delete]
func (c *CurriculumController) DeleteSection(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.SectionService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// GetLectures godoc
// @Summary List the lectures of a section
// @Tags Lectures
// @Produce json
// @Param sectionId query string true "Section ID"
// @Success 200 {object} util.Response{data=[]model.Lecture}
// @Router /api/lectures [get]
func (c *CurriculumController) GetLectures(ctx *gin.Context) {
	sectionID, err := requireQuery(ctx, "sectionId")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	lectures, err := c.LectureService.ListBySection(ctx.Request.Context(), sectionID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, lectures)
}

// CreateLecture godoc
// @Summary Create a lecture
// @Description Multipart form with the video file, or JSON with videoUrl
// @Tags Lectures
// @Accept mpfd,json
// @Produce json
// @Param sectionId formData string true "Section ID"
// @Param title formData string true "Title"
// @Param video formData file false "Video"
// @Success 201 {object} util.Response{data=model.Lecture}
// @Failure 504 {object} util.Response "Upload took too long"
// @Router /api/lectures [post]
func (c *CurriculumController) CreateLecture(ctx *gin.Context) {
	var in model.LectureInput
	if err := ctx.ShouldBind(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	video, err := optionalFile(ctx, "video")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	lecture, err := c.LectureService.Create(ctx.Request.Context(), in, video)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, lecture)
}

// UpdateLecture godoc
// @Summary Update a lecture
// @Tags Lectures
// @Accept mpfd,json
// @Produce json
// @Param id query string true "Lecture ID"
// @Param video formData file false "Replacement video"
// @Success 200 {object} util.Response{data=model.Lecture}
// @Router /api/lectures [put]
func (c *CurriculumController) UpdateLecture(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	var in model.LectureInput
	if err := ctx.ShouldBind(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	video, err := optionalFile(ctx, "video")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	lecture, err := c.LectureService.Update(ctx.Request.Context(), id, in, video)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, lecture)
}

// DeleteLecture godoc
// @Summary Delete a lecture
// @Tags Lectures
// @Produce json
// @Param id query string true "Lecture ID"
// @Success 200 {object} util.Response
// @Router /api/lectures [delete]
func (c *CurriculumController) DeleteLecture(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.LectureService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// GetQuizzes godoc
// @Summary List the quizzes of a lecture
// @Tags Quizzes
// @Produce json
// @Param lectureId query string true "Lecture ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes [get]
func (c *CurriculumController) GetQuizzes(ctx *gin.Context) {
	lectureID, err := requireQuery(ctx, "lectureId")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	quizzes, err := c.QuizService.ListByLecture(ctx.Request.Context(), lectureID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// CreateQuiz godoc
// @Summary Create a quiz question
// @Tags Quizzes
// @Accept json
// @Produce json
// @Param quiz body model.QuizInput true "Quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes [post]
func (c *CurriculumController) CreateQuiz(ctx *gin.Context) {
	var in model.QuizInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	quiz, err := c.QuizService.Create(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary Update a quiz question
// @Tags Quizzes
// @Accept json
// @Produce json
// @Param id query string true "Quiz ID"
// @Param quiz body model.QuizInput true "Quiz"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes [put]
func (c *CurriculumController) UpdateQuiz(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	var in model.QuizInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	quiz, err := c.QuizService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary Delete a quiz question
// @Tags Quizzes
// @Produce json
// @Param id query string true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes [delete]
func (c *CurriculumController) DeleteQuiz(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.QuizService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
