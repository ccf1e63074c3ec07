package controller

import (
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// GetCertificate godoc
// @Summary Find a user's certificate for a course
// @Description data is null when no certificate has been issued yet
// @Tags Certificates
// @Produce json
// @Param userId query string true "User ID"
// @Param courseId query string true "Course ID"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) GetCertificate(ctx *gin.Context) {
	userID, err := requireQuery(ctx, "userId")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	courseID, err := requireQuery(ctx, "courseId")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	cert, err := c.CertificateService.Find(ctx.Request.Context(), userID, courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// SendCertificates godoc
// @Summary Issue a course certificate to several users
// @Description Users are processed one after another; each gets its own result
// @Tags Certificates
// @Accept json
// @Produce json
// @Param body body model.SendCertificatesInput true "Recipients"
// @Success 200 {object} util.Response{data=[]util.BatchResult}
// @Router /api/certificates/send [post]
func (c *CertificateController) SendCertificates(ctx *gin.Context) {
	var in model.SendCertificatesInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	results, err := c.CertificateService.Send(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GenerateCertificate godoc
// @Summary Render a certificate PDF
// @Tags Certificates
// @Accept json
// @Produce application/pdf
// @Param userName query string false "Recipient name (GET)"
// @Param courseTitle query string false "Course title (GET)"
// @Param body body model.GenerateCertificateInput false "Recipient (POST)"
// @Success 200 {file} file
// @Failure 404 {object} util.Response "Template missing"
// @Router /api/certificates/generate [post]
func (c *CertificateController) GenerateCertificate(ctx *gin.Context) {
	var in model.GenerateCertificateInput
	var err error
	if ctx.Request.Method == http.MethodGet {
		err = ctx.ShouldBindQuery(&in)
	} else {
		err = ctx.ShouldBindJSON(&in)
	}
	if err != nil {
		util.FailBinding(ctx, err)
		return
	}

	cert, err := c.CertificateService.Generate(ctx.Request.Context(), in.UserName, in.CourseTitle)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": cert.Filename}))
	if cert.ArchiveURL != "" {
		ctx.Header("X-Certificate-Archive", cert.ArchiveURL)
	}
	ctx.Data(http.StatusOK, cert.ContentType, cert.Data)
}
