package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"net/http"
	"net/url"
	"strings"
)

const usersPath = "/Users"

// UserFilter narrows the user list.
type UserFilter struct {
	Search string
	Role   string
}

// UserService reads users and manages their course enrollments.
type UserService struct {
	proxy
}

func NewUserService(client *backend.Client, tokens *AdminTokenService) *UserService {
	return &UserService{proxy{client: client, tokens: tokens}}
}

// GetUsers lists users. The search term is passed to the backend and also
// applied locally, since not every backend build honours it.
func (s *UserService) GetUsers(ctx context.Context, filter UserFilter) ([]model.User, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	records, err := s.backendUsers(ctx, query)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	users := make([]model.User, 0, len(records))
	for _, r := range records {
		u := r.User()
		if search != "" && !strings.Contains(strings.ToLower(u.FullName), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if filter.Role != "" && !strings.EqualFold(u.Role, filter.Role) {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *UserService) Statistics(ctx context.Context) (*model.UserStatistics, error) {
	var record model.BackendStatistics
	err := s.admin(ctx, &backend.Request{
		Method: http.MethodGet,
		Path:   usersPath + "/statistics",
	}, &record)
	if err != nil {
		return nil, err
	}
	stats := record.Statistics()
	return &stats, nil
}

func (s *UserService) backendUsers(ctx context.Context, query url.Values) ([]model.BackendUser, error) {
	var records []model.BackendUser
	err := s.admin(ctx, &backend.Request{
		Method: http.MethodGet,
		Path:   usersPath,
		Query:  query,
	}, &records)
	return records, err
}

func usersOf(records []model.BackendUser) []model.User {
	users := make([]model.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.User())
	}
	return users
}

// usersOfEnrollments keeps the embedded user of each enrollment, or at least
// its id when the backend did not embed it.
func usersOfEnrollments(records []model.BackendEnrollment) []model.User {
	users := make([]model.User, 0, len(records))
	for _, e := range records {
		if e.User != nil {
			users = append(users, e.User.User())
			continue
		}
		if e.UserID != "" {
			users = append(users, model.User{ID: e.UserID, EnrolledCourseIDs: []model.ID{}})
		}
	}
	return users
}

func requireEnrollInput(in model.EnrollInput) error {
	if in.UserID == "" {
		return util.Required("userId")
	}
	if in.CourseID == "" {
		return util.Required("courseId")
	}
	return nil
}
