package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/logger"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const (
	newsPath     = "/News"
	newsEndpoint = "/News/{id}"
)

var newsWriteOverrides = map[int]string{
	http.StatusRequestEntityTooLarge: "Xəbərin həcmi çox böyükdür. Mətni və ya şəkli kiçildin.",
}

type NewsService struct {
	proxy
	languages *model.LanguageRegistry
}

func NewNewsService(client *backend.Client, tokens *AdminTokenService, languages *model.LanguageRegistry) *NewsService {
	return &NewsService{proxy: proxy{client: client, tokens: tokens}, languages: languages}
}

// List returns all news, optionally only those in the given language. The
// language may be a GUID, an ISO code or a name.
func (s *NewsService) List(ctx context.Context, language string) ([]model.NewsItem, error) {
	var filter model.Language
	if language != "" {
		lang, ok := s.languages.Parse(language)
		if !ok {
			return nil, util.Invalid("language", "unknown language "+language)
		}
		filter = lang
	}

	var records []model.BackendNews
	if err := s.public(ctx, &backend.Request{Method: http.MethodGet, Path: newsPath}, &records); err != nil {
		return nil, err
	}
	items := make([]model.NewsItem, 0, len(records))
	for _, r := range records {
		item := r.NewsItem(s.languages)
		if filter != model.LanguageUnknown && item.Language != filter.ISO() {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*model.NewsItem, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	var record model.BackendNews
	err := s.public(ctx, &backend.Request{
		Method:   http.MethodGet,
		Path:     pathID(newsPath, id),
		Endpoint: newsEndpoint,
	}, &record)
	if err != nil {
		return nil, err
	}
	item := record.NewsItem(s.languages)
	return &item, nil
}

func (s *NewsService) Create(ctx context.Context, in model.NewsInput) (*model.NewsItem, error) {
	return s.write(ctx, http.MethodPost, newsPath, newsPath, "", in)
}

func (s *NewsService) Update(ctx context.Context, id string, in model.NewsInput) (*model.NewsItem, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	return s.write(ctx, http.MethodPut, pathID(newsPath, id), newsEndpoint, id, in)
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:   http.MethodDelete,
		Path:     pathID(newsPath, id),
		Endpoint: newsEndpoint,
	}, nil)
}

func (s *NewsService) BatchUpdate(ctx context.Context, items []model.NewsDetailsUpdate) []util.BatchResult {
	return runBatch(ctx, items,
		func(item model.NewsDetailsUpdate) string { return item.ID },
		func(ctx context.Context, item model.NewsDetailsUpdate) error {
			_, err := s.Update(ctx, item.ID, item.Input)
			return err
		})
}

// write sends the article with the language's GUID and default name. The
// backend has accepted different spellings of the language name over time,
// so a 400 is retried with each known variant until the backend answers
// with anything other than 400.
func (s *NewsService) write(ctx context.Context, method, path, endpoint, id string, in model.NewsInput) (*model.NewsItem, error) {
	lang, ok := s.languages.Parse(in.Language)
	if !ok {
		return nil, util.Invalid("language", "unknown language "+in.Language)
	}
	payload := model.NewsPayload{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
	}
	if guid, ok := s.languages.GUID(lang); ok {
		payload.LanguageID = guid.String()
	}

	names := append([]string{lang.BackendName()}, lang.NameVariants()...)
	tried := make(map[string]bool, len(names))

	var raw json.RawMessage
	var err error
	for _, name := range names {
		if tried[name] {
			continue
		}
		tried[name] = true

		payload.LanguageName = name
		raw = nil
		err = s.admin(ctx, &backend.Request{
			Method:    method,
			Path:      path,
			Endpoint:  endpoint,
			JSON:      payload,
			Overrides: newsWriteOverrides,
		}, &raw)
		if !util.IsStatus(err, http.StatusBadRequest) {
			break
		}
		logger.Log.Info("Backend rejected language name, trying next variant",
			zap.String("language", lang.ISO()),
			zap.String("name", name))
	}
	if err != nil {
		return nil, err
	}

	var record model.BackendNews
	created, err := decodeCreated(path, raw, &record)
	if err != nil {
		return nil, err
	}
	if record.Title == "" {
		record = model.BackendNews{
			ID:           record.ID,
			Title:        in.Title,
			Content:      in.Content,
			ImageURL:     in.ImageURL,
			LanguageID:   payload.LanguageID,
			LanguageName: payload.LanguageName,
		}
	}
	if record.ID == "" {
		record.ID = model.ID(id)
	}
	if record.ID == "" {
		record.ID = created
	}
	item := record.NewsItem(s.languages)
	return &item, nil
}
