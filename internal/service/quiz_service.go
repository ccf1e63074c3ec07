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
	quizzesPath  = "/Quizzes"
	quizEndpoint = "/Quizzes/{id}"
)

type QuizService struct {
	proxy
}

func NewQuizService(client *backend.Client, tokens *AdminTokenService) *QuizService {
	return &QuizService{proxy{client: client, tokens: tokens}}
}

func (s *QuizService) ListByLecture(ctx context.Context, lectureID string) ([]model.Quiz, error) {
	if lectureID == "" {
		return nil, util.Required("lectureId")
	}
	var records []model.BackendQuiz
	err := s.public(ctx, &backend.Request{
		Method:   http.MethodGet,
		Path:     pathID(lecturesPath, lectureID) + "/quizzes",
		Endpoint: "/Lectures/{id}/quizzes",
		EmptyOn:  []int{http.StatusNotFound},
	}, &records)
	if err != nil {
		return nil, err
	}
	quizzes := make([]model.Quiz, 0, len(records))
	for _, r := range records {
		quizzes = append(quizzes, r.Quiz())
	}
	return quizzes, nil
}

func (s *QuizService) Create(ctx context.Context, in model.QuizInput) (*model.Quiz, error) {
	if err := checkCorrectOption(in); err != nil {
		return nil, err
	}
	return s.write(ctx, &backend.Request{
		Method: http.MethodPost,
		Path:   quizzesPath,
		JSON:   in.Payload(""),
	}, "", in)
}

func (s *QuizService) Update(ctx context.Context, id string, in model.QuizInput) (*model.Quiz, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	if err := checkCorrectOption(in); err != nil {
		return nil, err
	}
	return s.write(ctx, &backend.Request{
		Method:   http.MethodPut,
		Path:     pathID(quizzesPath, id),
		Endpoint: quizEndpoint,
		JSON:     in.Payload(id),
	}, model.ID(id), in)
}

func (s *QuizService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.admin(ctx, &backend.Request{
		Method:   http.MethodDelete,
		Path:     pathID(quizzesPath, id),
		Endpoint: quizEndpoint,
	}, nil)
}

func (s *QuizService) write(ctx context.Context, req *backend.Request, id model.ID, in model.QuizInput) (*model.Quiz, error) {
	var raw json.RawMessage
	if err := s.admin(ctx, req, &raw); err != nil {
		return nil, err
	}
	var record model.BackendQuiz
	created, err := decodeCreated(req.Path, raw, &record)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = created
	}
	if record.QuestionText == "" {
		payload := in.Payload("")
		record = model.BackendQuiz{
			ID:           record.ID,
			LectureID:    model.ID(in.LectureID),
			QuestionText: payload.QuestionText,
			Answers:      payload.Answers,
		}
	}
	if record.ID == "" {
		record.ID = id
	}
	quiz := record.Quiz()
	return &quiz, nil
}

func checkCorrectOption(in model.QuizInput) error {
	if in.CorrectOptionIndex >= len(in.Options) {
		return util.Invalid("correctOptionIndex", "correctOptionIndex must point at one of the options")
	}
	return nil
}
