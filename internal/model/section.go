package model

type Section struct {
	ID       ID     `json:"id"`
	CourseID ID     `json:"courseId"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

type BackendSection struct {
	ID       ID     `json:"Id"`
	CourseID ID     `json:"CourseId"`
	Title    string `json:"Title"`
	OrderNo  int    `json:"OrderNo"`
}

func (b BackendSection) Section() Section {
	return Section{ID: b.ID, CourseID: b.CourseID, Title: b.Title, Order: b.OrderNo}
}

type SectionInput struct {
	CourseID string `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Order    int    `json:"order"`
}

type SectionPayload struct {
	ID       string `json:"Id,omitempty"`
	CourseID string `json:"CourseId"`
	Title    string `json:"Title"`
	OrderNo  int    `json:"OrderNo"`
}

func (in SectionInput) Payload(id string) SectionPayload {
	return SectionPayload{ID: id, CourseID: in.CourseID, Title: in.Title, OrderNo: in.Order}
}
