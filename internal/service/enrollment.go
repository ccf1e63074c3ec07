package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/logger"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const alreadyEnrolledMarker = "already enrolled"

// enrollStrategies are the endpoint shapes the backend has exposed for
// enrolling a user, most recent first.
func (s *UserService) enrollStrategies() []strategy[model.EnrollInput, model.EnrollResult] {
	return []strategy[model.EnrollInput, model.EnrollResult]{
		{name: "course-enroll", run: func(ctx context.Context, in model.EnrollInput) (model.EnrollResult, error) {
			return s.postEnroll(ctx, pathID(coursesPath, in.CourseID)+"/enroll", "/Courses/{id}/enroll",
				model.EnrollPayload{UserID: in.UserID})
		}},
		{name: "enrollments", run: func(ctx context.Context, in model.EnrollInput) (model.EnrollResult, error) {
			return s.postEnroll(ctx, "/Enrollments", "/Enrollments",
				model.EnrollPayload{UserID: in.UserID, CourseID: in.CourseID})
		}},
		{name: "user-enroll", run: func(ctx context.Context, in model.EnrollInput) (model.EnrollResult, error) {
			return s.postEnroll(ctx, pathID(usersPath, in.UserID)+"/enroll/"+url.PathEscape(in.CourseID),
				"/Users/{id}/enroll/{courseId}", nil)
		}},
		{name: "courses-enroll", run: func(ctx context.Context, in model.EnrollInput) (model.EnrollResult, error) {
			return s.postEnroll(ctx, coursesPath+"/enroll", "/Courses/enroll",
				model.EnrollPayload{UserID: in.UserID, CourseID: in.CourseID})
		}},
	}
}

func (s *UserService) postEnroll(ctx context.Context, path, endpoint string, body interface{}) (model.EnrollResult, error) {
	req := &backend.Request{Method: http.MethodPost, Path: path, Endpoint: endpoint}
	if body != nil {
		req.JSON = body
	}
	return enrollOutcome(s.admin(ctx, req, nil))
}

// enrollOutcome treats "already enrolled" as the goal being reached.
func enrollOutcome(err error) (model.EnrollResult, error) {
	if err == nil {
		return model.EnrollResult{Enrolled: true}, nil
	}
	var upstreamErr *util.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.Status == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(upstreamErr.Message), alreadyEnrolledMarker) {
		return model.EnrollResult{Enrolled: true, AlreadyEnrolled: true}, nil
	}
	return model.EnrollResult{}, err
}

// Enroll enrolls a user into a course through whichever endpoint the
// backend accepts first. When every endpoint fails the last error wins.
func (s *UserService) Enroll(ctx context.Context, in model.EnrollInput) (*model.EnrollResult, error) {
	if err := requireEnrollInput(in); err != nil {
		return nil, err
	}
	result, name, err := firstSuccess(ctx, "enroll", in, s.enrollStrategies())
	if err != nil {
		return nil, err
	}
	result.Strategy = name
	logger.Log.Info("User enrolled",
		zap.String("userId", in.UserID),
		zap.String("courseId", in.CourseID),
		zap.String("strategy", name),
		zap.Bool("alreadyEnrolled", result.AlreadyEnrolled))
	return &result, nil
}

func (s *UserService) enrolledStrategies() []strategy[string, []model.User] {
	return []strategy[string, []model.User]{
		{name: "course-users", run: func(ctx context.Context, courseID string) ([]model.User, error) {
			var records []model.BackendUser
			err := s.admin(ctx, &backend.Request{
				Method:   http.MethodGet,
				Path:     pathID(coursesPath, courseID) + "/users",
				Endpoint: "/Courses/{id}/users",
			}, &records)
			if err != nil {
				return nil, err
			}
			return usersOf(records), nil
		}},
		{name: "course-enrollments", run: func(ctx context.Context, courseID string) ([]model.User, error) {
			var records []model.BackendEnrollment
			err := s.admin(ctx, &backend.Request{
				Method:   http.MethodGet,
				Path:     pathID(coursesPath, courseID) + "/enrollments",
				Endpoint: "/Courses/{id}/enrollments",
			}, &records)
			if err != nil {
				return nil, err
			}
			return usersOfEnrollments(records), nil
		}},
		{name: "enrollments", run: func(ctx context.Context, courseID string) ([]model.User, error) {
			var records []model.BackendEnrollment
			err := s.admin(ctx, &backend.Request{
				Method: http.MethodGet,
				Path:   "/Enrollments",
				Query:  url.Values{"courseId": {courseID}},
			}, &records)
			if err != nil {
				return nil, err
			}
			return usersOfEnrollments(records), nil
		}},
		{name: "users-filter", run: func(ctx context.Context, courseID string) ([]model.User, error) {
			records, err := s.backendUsers(ctx, nil)
			if err != nil {
				return nil, err
			}
			var enrolled []model.BackendUser
			for _, r := range records {
				if r.EnrolledIn(courseID) {
					enrolled = append(enrolled, r)
				}
			}
			return usersOf(enrolled), nil
		}},
	}
}

// EnrolledUsers lists the users enrolled in a course. If no endpoint
// answers, the course is shown with nobody enrolled rather than failing;
// only a failure to obtain the admin token is reported.
func (s *UserService) EnrolledUsers(ctx context.Context, courseID string) ([]model.User, error) {
	if courseID == "" {
		return nil, util.Required("courseId")
	}
	users, _, err := firstSuccess(ctx, "enrolled-users", courseID, s.enrolledStrategies())
	if err != nil {
		var authErr *util.AuthenticationError
		if errors.As(err, &authErr) {
			return nil, err
		}
		logger.Log.Warn("No enrolled-users endpoint answered, returning empty list",
			zap.String("courseId", courseID),
			zap.Error(err))
		return []model.User{}, nil
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
