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
	sectionsPath    = "/Sections"
	sectionEndpoint = "/Sections/{id}"
)

type SectionService struct {
	proxy
}

func NewSectionService(client *backend.Client, tokens *AdminTokenService) *SectionService {
	return &SectionService{proxy{client: client, tokens: tokens}}
}

// ListByCourse returns the sections of a course. A course the backend does
// not know yet has no sections, so 404 yields an empty list.
func (s *SectionService) ListByCourse(ctx context.Context, courseID string) ([]model.Section, error) {
	if courseID == "" {
		return nil, util.Required("courseId")
	}
	var records []model.BackendSection
	err := s.public(ctx, &backend.Request{
		Method:   http.MethodGet,
		Path:     pathID(coursesPath, courseID) + "/sections",
		Endpoint: "/Courses/{id}/sections",
		EmptyOn:  []int{http.StatusNotFound},
	}, &records)
	if err != nil {
		return nil, err
	}
	sections := make([]model.Section, 0, len(records))
	for _, r := range records {
		sections = append(sections, r.Section())
	}
	return sections, nil
}

func (s *SectionService) Create(ctx context.Context, in model.SectionInput) (*model.Section, error) {
	var raw json.RawMessage
	err := s.admin(ctx, &backend.Request{
		Method: http.MethodPost,
		Path:   sectionsPath,
		JSON:   in.Payload(""),
	}, &raw)
	if err != nil {
		return nil, err
	}
	var record model.BackendSection
	id, err := decodeCreated(sectionsPath, raw, &record)
	if err != nil {
		return nil, err
	}
	return sectionResult(record, id, in), nil
}

func (s *SectionService) Update(ctx context.Context, id string, in model.SectionInput) (*model.Section, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	path := pathID(sectionsPath, id)
	var raw json.RawMessage
	err := s.admin(ctx, &backend.Request{
		Method:   http.MethodPut,
		Path:     path,
		Endpoint: sectionEndpoint,
		JSON:     in.Payload(id),
	}, &raw)
	if err != nil {
		return nil, err
	}
	var record model.BackendSection
	if _, err := decodeCreated(path, raw, &record); err != nil {
		return nil, err
	}
	return sectionResult(record, model.ID(id), in), nil
}

func (s *SectionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:   http.MethodDelete,
		Path:     pathID(sectionsPath, id),
		Endpoint: sectionEndpoint,
	}, nil)
}

func sectionResult(record model.BackendSection, id model.ID, in model.SectionInput) *model.Section {
	if record.Title == "" {
		record = model.BackendSection{ID: record.ID, CourseID: model.ID(in.CourseID), Title: in.Title, OrderNo: in.Order}
	}
	if record.ID == "" {
		record.ID = id
	}
	section := record.Section()
	return &section
}
