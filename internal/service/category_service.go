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
	categoriesPath   = "/Categories"
	categoryEndpoint = "/Categories/{id}"
)

// The backend answers 500 instead of 409 for some foreign key violations.
var categoryDeleteOverrides = map[int]string{
	http.StatusConflict:            "Bu kateqoriyaya bağlı kurslar olduğu üçün silinə bilməz.",
	http.StatusInternalServerError: "Kateqoriya silinə bilmədi. Ona bağlı kursların olmadığından əmin olun.",
}

type CategoryService struct {
	proxy
}

func NewCategoryService(client *backend.Client, tokens *AdminTokenService) *CategoryService {
	return &CategoryService{proxy{client: client, tokens: tokens}}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	var records []model.BackendCategory
	if err := s.public(ctx, &backend.Request{Method: http.MethodGet, Path: categoriesPath}, &records); err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0, len(records))
	for _, r := range records {
		categories = append(categories, r.Category())
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	var raw json.RawMessage
	err := s.admin(ctx, &backend.Request{
		Method: http.MethodPost,
		Path:   categoriesPath,
		JSON:   model.BackendCategory{Name: in.Name},
	}, &raw)
	if err != nil {
		return nil, err
	}
	var record model.BackendCategory
	id, err := decodeCreated(categoriesPath, raw, &record)
	if err != nil {
		return nil, err
	}
	if record.Name == "" {
		record.Name = in.Name
	}
	if record.ID == "" {
		record.ID = id
	}
	category := record.Category()
	return &category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:    http.MethodDelete,
		Path:      pathID(categoriesPath, id),
		Endpoint:  categoryEndpoint,
		Overrides: categoryDeleteOverrides,
	}, nil)
}
