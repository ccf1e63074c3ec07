package service

import (
	"bytes"
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/logger"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const certificatesPath = "/Certificates"

// CertificateRenderer produces the certificate PDF.
type CertificateRenderer interface {
	Render(userName, courseTitle string) ([]byte, error)
}

type GeneratedCertificate struct {
	Data        []byte
	ContentType string
	Filename    string
	// ArchiveURL is set when a copy was archived.
	ArchiveURL string
}

type CertificateService struct {
	proxy
	renderer CertificateRenderer
	storage  *StorageService
	archive  bool
	now      func() time.Time
}

// NewCertificateService wires the service; storage may be nil when
// archiving is off.
func NewCertificateService(client *backend.Client, tokens *AdminTokenService, renderer CertificateRenderer, storage *StorageService, archive bool) *CertificateService {
	return &CertificateService{
		proxy:    proxy{client: client, tokens: tokens},
		renderer: renderer,
		storage:  storage,
		archive:  archive && storage != nil,
		now:      time.Now,
	}
}

// Find returns the certificate a user holds for a course, or nil when none
// has been issued yet.
func (s *CertificateService) Find(ctx context.Context, userID, courseID string) (*model.Certificate, error) {
	if userID == "" {
		return nil, util.Required("userId")
	}
	if courseID == "" {
		return nil, util.Required("courseId")
	}

	var raw json.RawMessage
	err := s.admin(ctx, &backend.Request{
		Method:  http.MethodGet,
		Path:    certificatesPath,
		Query:   url.Values{"userId": {userID}, "courseId": {courseID}},
		EmptyOn: []int{http.StatusNotFound},
	}, &raw)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var records []model.BackendCertificate
		if err := backend.DecodeInto(certificatesPath, trimmed, &records); err != nil {
			return nil, err
		}
		for _, r := range records {
			if r.CourseID == "" || strings.EqualFold(string(r.CourseID), courseID) {
				cert := r.Certificate()
				return &cert, nil
			}
		}
		return nil, nil
	}

	var record model.BackendCertificate
	if err := backend.DecodeInto(certificatesPath, trimmed, &record); err != nil {
		return nil, err
	}
	if record.ID == "" && record.CertificateURL == "" && record.FileURL == "" {
		return nil, nil
	}
	cert := record.Certificate()
	return &cert, nil
}

// Send issues the course certificate to each user in turn. The backend
// mails every certificate it issues, so recipients are not processed in
// parallel. Each user gets its own result.
func (s *CertificateService) Send(ctx context.Context, in model.SendCertificatesInput) ([]util.BatchResult, error) {
	if in.CourseID == "" {
		return nil, util.Required("courseId")
	}
	if len(in.UserIDs) == 0 {
		return nil, util.Required("userIds")
	}

	results := make([]util.BatchResult, 0, len(in.UserIDs))
	for _, userID := range in.UserIDs {
		res := util.BatchResult{ID: userID, Success: true}
		if err := ctx.Err(); err != nil {
			res.Success = false
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		err := s.admin(ctx, &backend.Request{
			Method: http.MethodPost,
			Path:   certificatesPath,
			JSON:   model.CertificatePayload{UserID: userID, CourseID: in.CourseID},
		}, nil)
		if err != nil {
			res.Success = false
			res.Error = err.Error()
			logger.Log.Warn("Certificate not sent",
				zap.String("userId", userID),
				zap.String("courseId", in.CourseID),
				zap.Error(err))
		}
		results = append(results, res)
	}
	return results, nil
}

// Generate renders a certificate and, if configured, archives a copy. A
// failed archive is logged; the caller still gets the PDF.
func (s *CertificateService) Generate(ctx context.Context, userName, courseTitle string) (*GeneratedCertificate, error) {
	data, err := s.renderer.Render(userName, courseTitle)
	if err != nil {
		var notFound *util.TemplateNotFoundError
		if errors.As(err, &notFound) {
			logger.Log.Error("Certificate template missing", zap.String("path", notFound.Path))
		}
		return nil, err
	}
	cert := &GeneratedCertificate{
		Data:        data,
		ContentType: util.MimePDF,
		Filename:    "certificate_" + util.SanitizeFilename(userName) + ".pdf",
	}

	if s.archive {
		key := CertificateKey(s.now().Format(util.DateFormat), cert.Filename)
		archiveURL, err := s.storage.Put(ctx, key, data, util.MimePDF)
		if err != nil {
			logger.Log.Error("Failed to archive certificate", zap.String("key", key), zap.Error(err))
		} else {
			cert.ArchiveURL = archiveURL
		}
	}
	return cert, nil
}
