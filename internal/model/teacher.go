package model

type Teacher struct {
	ID       ID     `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Bio      string `json:"bio,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type BackendTeacher struct {
	ID        ID     `json:"Id"`
	FullName  string `json:"FullName"`
	Name      string `json:"Name"`
	Email     string `json:"Email"`
	Biography string `json:"Biography"`
	PhotoURL  string `json:"PhotoUrl"`
}

func (b BackendTeacher) Teacher() Teacher {
	return Teacher{
		ID:       b.ID,
		FullName: firstNonEmpty(b.FullName, b.Name),
		Email:    b.Email,
		Bio:      b.Biography,
		PhotoURL: b.PhotoURL,
	}
}

type TeacherInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl"`
}

type TeacherPayload struct {
	FullName  string `json:"FullName"`
	Email     string `json:"Email,omitempty"`
	Biography string `json:"Biography,omitempty"`
	PhotoURL  string `json:"PhotoUrl,omitempty"`
}

func (in TeacherInput) Payload() TeacherPayload {
	return TeacherPayload{FullName: in.FullName, Email: in.Email, Biography: in.Bio, PhotoURL: in.PhotoURL}
}
