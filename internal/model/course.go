package model

// Course is the shape the admin UI reads.
type Course struct {
	ID           ID      `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CategoryID   ID      `json:"categoryId,omitempty"`
	CategoryName string  `json:"categoryName,omitempty"`
	TeacherID    ID      `json:"teacherId,omitempty"`
	TeacherName  string  `json:"teacherName,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Price        float64 `json:"price"`
	IsPublished  bool    `json:"isPublished"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

// BackendCourse is a course as the backend serializes it.
type BackendCourse struct {
	ID           ID      `json:"Id"`
	Title        string  `json:"Title"`
	Description  string  `json:"Description"`
	CategoryID   ID      `json:"CategoryId"`
	CategoryName string  `json:"CategoryName"`
	TeacherID    ID      `json:"TeacherId"`
	TeacherName  string  `json:"TeacherName"`
	ImageURL     string  `json:"ImageUrl"`
	CoverImage   string  `json:"CoverImage"`
	Price        float64 `json:"Price"`
	IsPublished  bool    `json:"IsPublished"`
	CreatedDate  string  `json:"CreatedDate"`
}

func (b BackendCourse) Course() Course {
	return Course{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
		TeacherID:    b.TeacherID,
		TeacherName:  b.TeacherName,
		ImageURL:     firstNonEmpty(b.ImageURL, b.CoverImage),
		Price:        b.Price,
		IsPublished:  b.IsPublished,
		CreatedAt:    b.CreatedDate,
	}
}

// CourseInput is what the course form submits, as JSON or multipart.
type CourseInput struct {
	Title       string  `json:"title" form:"title" binding:"required"`
	Description string  `json:"description" form:"description" binding:"required"`
	CategoryID  string  `json:"categoryId" form:"categoryId" binding:"required"`
	TeacherID   string  `json:"teacherId" form:"teacherId"`
	Price       float64 `json:"price" form:"price" binding:"gte=0"`
	IsPublished bool    `json:"isPublished" form:"isPublished"`
	ImageURL    string  `json:"imageUrl" form:"imageUrl"`
}

// CoursePayload is the body the backend expects on create and update.
type CoursePayload struct {
	ID          string  `json:"Id,omitempty"`
	Title       string  `json:"Title"`
	Description string  `json:"Description"`
	CategoryID  string  `json:"CategoryId"`
	TeacherID   string  `json:"TeacherId,omitempty"`
	Price       float64 `json:"Price"`
	IsPublished bool    `json:"IsPublished"`
	ImageURL    string  `json:"ImageUrl,omitempty"`
}

func (in CourseInput) Payload(id string) CoursePayload {
	return CoursePayload{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		TeacherID:   in.TeacherID,
		Price:       in.Price,
		IsPublished: in.IsPublished,
		ImageURL:    in.ImageURL,
	}
}

// CourseDetailsUpdate is one row of a batch update from the course table.
type CourseDetailsUpdate struct {
	ID    string      `json:"id" binding:"required"`
	Input CourseInput `json:"course"`
}
