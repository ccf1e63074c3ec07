package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	lecturesPath    = "/Lectures"
	lectureEndpoint = "/Lectures/{id}"
)

var lectureWriteOverrides = map[int]string{
	http.StatusRequestEntityTooLarge: "Video faylı çox böyükdür. Daha kiçik fayl seçin.",
}

type LectureService struct {
	proxy
}

func NewLectureService(client *backend.Client, tokens *AdminTokenService) *LectureService {
	return &LectureService{proxy{client: client, tokens: tokens}}
}

func (s *LectureService) ListBySection(ctx context.Context, sectionID string) ([]model.Lecture, error) {
	if sectionID == "" {
		return nil, util.Required("sectionId")
	}
	var records []model.BackendLecture
	err := s.public(ctx, &backend.Request{
		Method:   http.MethodGet,
		Path:     pathID(sectionsPath, sectionID) + "/lectures",
		Endpoint: "/Sections/{id}/lectures",
		EmptyOn:  []int{http.StatusNotFound},
	}, &records)
	if err != nil {
		return nil, err
	}
	lectures := make([]model.Lecture, 0, len(records))
	for _, r := range records {
		lectures = append(lectures, r.Lecture())
	}
	return lectures, nil
}

// Create uploads a lecture. A new lecture needs either a video file or a
// video URL.
func (s *LectureService) Create(ctx context.Context, in model.LectureInput, video *backend.FormFile) (*model.Lecture, error) {
	if video == nil && in.VideoURL == "" {
		return nil, util.Required("video")
	}
	req := lectureWriteRequest(http.MethodPost, lecturesPath, lecturesPath, "", in, video)
	return s.write(ctx, req, "", in)
}

// Update changes a lecture; the video is replaced only when a new file is sent.
func (s *LectureService) Update(ctx context.Context, id string, in model.LectureInput, video *backend.FormFile) (*model.Lecture, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	req := lectureWriteRequest(http.MethodPut, pathID(lecturesPath, id), lectureEndpoint, id, in, video)
	return s.write(ctx, req, model.ID(id), in)
}

func (s *LectureService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:   http.MethodDelete,
		Path:     pathID(lecturesPath, id),
		Endpoint: lectureEndpoint,
	}, nil)
}

func (s *LectureService) write(ctx context.Context, req *backend.Request, id model.ID, in model.LectureInput) (*model.Lecture, error) {
	var raw json.RawMessage
	if err := s.admin(ctx, req, &raw); err != nil {
		return nil, err
	}
	var record model.BackendLecture
	created, err := decodeCreated(req.Path, raw, &record)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = created
	}
	if record.Title == "" {
		record = model.BackendLecture{
			ID:          record.ID,
			SectionID:   model.ID(in.SectionID),
			Title:       in.Title,
			Description: in.Description,
			VideoURL:    in.VideoURL,
			Duration:    in.Duration,
			OrderNo:     in.Order,
		}
	}
	if record.ID == "" {
		record.ID = id
	}
	lecture := record.Lecture()
	return &lecture, nil
}

// lectureWriteRequest always sends multipart since the backend only accepts
// lecture forms that way, and always under the long deadline.
func lectureWriteRequest(method, path, endpoint, id string, in model.LectureInput, video *backend.FormFile) *backend.Request {
	form := &backend.Multipart{}
	if id != "" {
		form.Add("Id", id)
	}
	form.Add("SectionId", in.SectionID)
	form.Add("Title", in.Title)
	form.Add("Description", in.Description)
	form.Add("Duration", strconv.Itoa(in.Duration))
	form.Add("OrderNo", strconv.Itoa(in.Order))
	if in.VideoURL != "" {
		form.Add("VideoUrl", in.VideoURL)
	}
	if video != nil {
		v := *video
		v.Field = "Video"
		form.Files = append(form.Files, v)
	}
	return &backend.Request{
		Method:    method,
		Path:      path,
		Endpoint:  endpoint,
		Multipart: form,
		Long:      true,
		Overrides: lectureWriteOverrides,
	}
}
