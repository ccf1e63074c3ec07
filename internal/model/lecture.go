package model

type Lecture struct {
	ID          ID     `json:"id"`
	SectionID   ID     `json:"sectionId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Duration    int    `json:"duration"`
	Order       int    `json:"order"`
}

type BackendLecture struct {
	ID          ID     `json:"Id"`
	SectionID   ID     `json:"SectionId"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	VideoURL    string `json:"VideoUrl"`
	Duration    int    `json:"Duration"`
	OrderNo     int    `json:"OrderNo"`
}

func (b BackendLecture) Lecture() Lecture {
	return Lecture{
		ID:          b.ID,
		SectionID:   b.SectionID,
		Title:       b.Title,
		Description: b.Description,
		VideoURL:    b.VideoURL,
		Duration:    b.Duration,
		Order:       b.OrderNo,
	}
}

// LectureInput is the lecture form. The video itself travels as the
// "video" multipart file and is handled by the controller.
type LectureInput struct {
	SectionID   string `form:"sectionId" json:"sectionId" binding:"required"`
	Title       string `form:"title" json:"title" binding:"required"`
	Description string `form:"description" json:"description"`
	Duration    int    `form:"duration" json:"duration" binding:"gte=0"`
	Order       int    `form:"order" json:"order"`
	VideoURL    string `form:"videoUrl" json:"videoUrl"`
}
