package app

import (
	"course_admin_gateway/docs"
	"course_admin_gateway/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		auth := api.Group("/auth/token")
		auth.POST("/refresh", c.auth.RefreshToken)
		auth.GET("/status", c.auth.TokenStatus)

		api.PUT("/courses/batch", c.course.BatchUpdateCourses)
		api.GET("/courses", c.course.GetCourses)
		api.POST("/courses", c.course.CreateCourse)
		api.PUT("/courses", c.course.UpdateCourse)
		api.DELETE("/courses", c.course.DeleteCourse)

		api.GET("/sections", c.curriculum.GetSections)
		api.POST("/sections", c.curriculum.CreateSection)
		api.PUT("/sections", c.curriculum.UpdateSection)
		api.DELETE("/sections", c.curriculum.DeleteSection)

		api.GET("/lectures", c.curriculum.GetLectures)
		api.POST("/lectures", c.curriculum.CreateLecture)
		api.PUT("/lectures", c.curriculum.UpdateLecture)
		api.DELETE("/lectures", c.curriculum.DeleteLecture)

		api.GET("/quizzes", c.curriculum.GetQuizzes)
		api.POST("/quizzes", c.curriculum.CreateQuiz)
		api.PUT("/quizzes", c.curriculum.UpdateQuiz)
		api.DELETE("/quizzes", c.curriculum.DeleteQuiz)

		api.PUT("/news/batch", c.news.BatchUpdateNews)
		api.GET("/news", c.news.GetNews)
		api.POST("/news", c.news.CreateNews)
		api.PUT("/news", c.news.UpdateNews)
		api.DELETE("/news", c.news.DeleteNews)
		api.GET("/languages", c.news.GetLanguages)

		api.GET("/categories", c.catalog.GetCategories)
		api.POST("/categories", c.catalog.CreateCategory)
		api.DELETE("/categories", c.catalog.DeleteCategory)

		api.GET("/teachers", c.catalog.GetTeachers)
		api.POST("/teachers", c.catalog.CreateTeacher)
		api.DELETE("/teachers", c.catalog.DeleteTeacher)

		api.GET("/users", c.user.GetUsers)
		api.GET("/users/statistics", c.user.GetStatistics)
		api.GET("/users/enrolled", c.user.GetEnrolledUsers)
		api.POST("/users/enroll", c.user.Enroll)

		api.GET("/certificates", c.certificate.GetCertificate)
		api.POST("/certificates/send", c.certificate.SendCertificates)
		api.POST("/certificates/generate", c.certificate.GenerateCertificate)
		api.GET("/certificates/generate", c.certificate.GenerateCertificate)
	}
}
