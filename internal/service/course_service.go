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
	coursesPath    = "/Courses"
	courseEndpoint = "/Courses/{id}"
)

var (
	courseWriteOverrides = map[int]string{
		http.StatusRequestEntityTooLarge: "Şəkil faylı çox böyükdür. Daha kiçik fayl seçin.",
	}
	courseDeleteOverrides = map[int]string{
		http.StatusConflict: "Bu kursa bağlı bölmələr və ya tələbələr olduğu üçün kurs silinə bilməz.",
	}
)

type CourseService struct {
	proxy
}

func NewCourseService(client *backend.Client, tokens *AdminTokenService) *CourseService {
	return &CourseService{proxy{client: client, tokens: tokens}}
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	var records []model.BackendCourse
	if err := s.public(ctx, &backend.Request{Method: http.MethodGet, Path: coursesPath}, &records); err != nil {
		return nil, err
	}
	courses := make([]model.Course, 0, len(records))
	for _, r := range records {
		courses = append(courses, r.Course())
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	var record model.BackendCourse
	err := s.public(ctx, &backend.Request{
		Method:   http.MethodGet,
		Path:     pathID(coursesPath, id),
		Endpoint: courseEndpoint,
	}, &record)
	if err != nil {
		return nil, err
	}
	course := record.Course()
	return &course, nil
}

// Create posts a new course. With an image the form goes out as multipart
// under the long deadline, otherwise as JSON.
func (s *CourseService) Create(ctx context.Context, in model.CourseInput, image *backend.FormFile) (*model.Course, error) {
	req := courseWriteRequest(http.MethodPost, coursesPath, coursesPath, "", in, image)

	var raw json.RawMessage
	if err := s.admin(ctx, req, &raw); err != nil {
		return nil, err
	}
	var record model.BackendCourse
	id, err := decodeCreated(req.Path, raw, &record)
	if err != nil {
		return nil, err
	}
	return courseResult(record, id, in), nil
}

func (s *CourseService) Update(ctx context.Context, id string, in model.CourseInput, image *backend.FormFile) (*model.Course, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	req := courseWriteRequest(http.MethodPut, pathID(coursesPath, id), courseEndpoint, id, in, image)

	var raw json.RawMessage
	if err := s.admin(ctx, req, &raw); err != nil {
		return nil, err
	}
	var record model.BackendCourse
	if _, err := decodeCreated(req.Path, raw, &record); err != nil {
		return nil, err
	}
	return courseResult(record, model.ID(id), in), nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:    http.MethodDelete,
		Path:      pathID(coursesPath, id),
		Endpoint:  courseEndpoint,
		Overrides: courseDeleteOverrides,
	}, nil)
}

// BatchUpdate saves several course rows at once, reporting each row.
func (s *CourseService) BatchUpdate(ctx context.Context, items []model.CourseDetailsUpdate) []util.BatchResult {
	return runBatch(ctx, items,
		func(item model.CourseDetailsUpdate) string { return item.ID },
		func(ctx context.Context, item model.CourseDetailsUpdate) error {
			_, err := s.Update(ctx, item.ID, item.Input, nil)
			return err
		})
}

func courseWriteRequest(method, path, endpoint, id string, in model.CourseInput, image *backend.FormFile) *backend.Request {
	req := &backend.Request{
		Method:    method,
		Path:      path,
		Endpoint:  endpoint,
		Overrides: courseWriteOverrides,
	}
	if image == nil {
		req.JSON = in.Payload(id)
		return req
	}

	form := &backend.Multipart{}
	if id != "" {
		form.Add("Id", id)
	}
	form.Add("Title", in.Title)
	form.Add("Description", in.Description)
	form.Add("CategoryId", in.CategoryID)
	if in.TeacherID != "" {
		form.Add("TeacherId", in.TeacherID)
	}
	form.Add("Price", formatFloat(in.Price))
	form.Add("IsPublished", strconv.FormatBool(in.IsPublished))
	img := *image
	img.Field = "Image"
	form.Files = append(form.Files, img)

	req.Multipart = form
	req.Long = true
	return req
}

// courseResult prefers what the backend echoed back and falls back to the
// submitted form when the backend answered with nothing useful.
func courseResult(record model.BackendCourse, id model.ID, in model.CourseInput) *model.Course {
	if record.Title == "" {
		record = model.BackendCourse{
			ID:          record.ID,
			Title:       in.Title,
			Description: in.Description,
			CategoryID:  model.ID(in.CategoryID),
			TeacherID:   model.ID(in.TeacherID),
			ImageURL:    in.ImageURL,
			Price:       in.Price,
			IsPublished: in.IsPublished,
		}
	}
	if record.ID == "" {
		record.ID = id
	}
	course := record.Course()
	return &course
}
