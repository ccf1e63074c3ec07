package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"encoding/json"
	"net/http"
)

const (
	teachersPath    = "/Teachers"
	teacherEndpoint = "/Teachers/{id}"
)

type TeacherService struct {
	proxy
}

func NewTeacherService(client *backend.Client, tokens *AdminTokenService) *TeacherService {
	return &TeacherService{proxy{client: client, tokens: tokens}}
}

func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	var records []model.BackendTeacher
	if err := s.public(ctx, &backend.Request{Method: http.MethodGet, Path: teachersPath}, &records); err != nil {
		return nil, err
	}
	teachers := make([]model.Teacher, 0, len(records))
	for _, r := range records {
		teachers = append(teachers, r.Teacher())
	}
	return teachers, nil
}

func (s *TeacherService) Create(ctx context.Context, in model.TeacherInput) (*model.Teacher, error) {
	var raw json.RawMessage
	err := s.admin(ctx, &backend.Request{
		Method: http.MethodPost,
		Path:   teachersPath,
		JSON:   in.Payload(),
	}, &raw)
	if err != nil {
		return nil, err
	}
	var record model.BackendTeacher
	id, err := decodeCreated(teachersPath, raw, &record)
	if err != nil {
		return nil, err
	}
	if record.FullName == "" && record.Name == "" {
		record = model.BackendTeacher{
			ID:        record.ID,
			FullName:  in.FullName,
			Email:     in.Email,
			Biography: in.Bio,
			PhotoURL:  in.PhotoURL,
		}
	}
	if record.ID == "" {
		record.ID = id
	}
	teacher := record.Teacher()
	return &teacher, nil
}

func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:   http.MethodDelete,
		Path:     pathID(teachersPath, id),
		Endpoint: teacherEndpoint,
	}, nil)
}
