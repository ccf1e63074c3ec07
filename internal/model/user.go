package model

import "strings"

type User struct {
	ID                ID     `json:"id"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Role              string `json:"role,omitempty"`
	EnrolledCourseIDs []ID   `json:"enrolledCourseIds"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

type BackendUser struct {
	ID                ID       `json:"Id"`
	FullName          string   `json:"FullName"`
	FirstName         string   `json:"FirstName"`
	LastName          string   `json:"LastName"`
	UserName          string   `json:"UserName"`
	Email             string   `json:"Email"`
	PhoneNumber       string   `json:"PhoneNumber"`
	Role              string   `json:"Role"`
	Roles             []string `json:"Roles"`
	EnrolledCourseIDs []ID     `json:"EnrolledCourseIds"`
	CreatedDate       string   `json:"CreatedDate"`
}

func (b BackendUser) User() User {
	name := b.FullName
	if name == "" {
		name = strings.TrimSpace(b.FirstName + " " + b.LastName)
	}
	if name == "" {
		name = b.UserName
	}
	role := b.Role
	if role == "" && len(b.Roles) > 0 {
		role = b.Roles[0]
	}
	enrolled := b.EnrolledCourseIDs
	if enrolled == nil {
		enrolled = []ID{}
	}
	return User{
		ID:                b.ID,
		FullName:          name,
		Email:             b.Email,
		Phone:             b.PhoneNumber,
		Role:              role,
		EnrolledCourseIDs: enrolled,
		CreatedAt:         b.CreatedDate,
	}
}

// EnrolledIn reports whether the user's enrollment list contains courseID.
func (b BackendUser) EnrolledIn(courseID string) bool {
	for _, id := range b.EnrolledCourseIDs {
		if strings.EqualFold(string(id), courseID) {
			return true
		}
	}
	return false
}

// BackendEnrollment is one enrollment record; some endpoints embed the user.
type BackendEnrollment struct {
	ID       ID           `json:"Id"`
	UserID   ID           `json:"UserId"`
	CourseID ID           `json:"CourseId"`
	User     *BackendUser `json:"User"`
}

type UserStatistics struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
	TotalEnrollments  int `json:"totalEnrollments"`
	TotalCourses      int `json:"totalCourses"`
}

type BackendStatistics struct {
	TotalUsers        int `json:"TotalUsers"`
	ActiveUsers       int `json:"ActiveUsers"`
	NewUsersThisMonth int `json:"NewUsersThisMonth"`
	TotalEnrollments  int `json:"TotalEnrollments"`
	TotalCourses      int `json:"TotalCourses"`
}

func (b BackendStatistics) Statistics() UserStatistics {
	return UserStatistics(b)
}

type EnrollInput struct {
	UserID   string `json:"userId" binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
}

type EnrollResult struct {
	Enrolled        bool   `json:"enrolled"`
	AlreadyEnrolled bool   `json:"alreadyEnrolled"`
	Strategy        string `json:"strategy"`
}

type EnrollPayload struct {
	UserID   string `json:"UserId"`
	CourseID string `json:"CourseId,omitempty"`
}
