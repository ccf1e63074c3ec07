package controller

import (
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// optionalFile returns the uploaded file under field, or nil when the
// request is not multipart or carries no such file.
func optionalFile(ctx *gin.Context, field string) (*backend.FormFile, error) {
	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return nil, nil
	}
	fh, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, util.Invalid(field, "could not read uploaded "+field+": "+err.Error())
	}
	return service.FormFileFromHeader(field, fh), nil
}

// requireQuery reads a mandatory query parameter.
func requireQuery(ctx *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(ctx.Query(name))
	if v == "" {
		return "", util.Required(name)
	}
	return v, nil
}
