package model

type Certificate struct {
	ID             ID     `json:"id"`
	UserID         ID     `json:"userId"`
	CourseID       ID     `json:"courseId"`
	CertificateURL string `json:"certificateUrl,omitempty"`
	IssuedAt       string `json:"issuedAt,omitempty"`
}

type BackendCertificate struct {
	ID             ID     `json:"Id"`
	UserID         ID     `json:"UserId"`
	CourseID       ID     `json:"CourseId"`
	CertificateURL string `json:"CertificateUrl"`
	FileURL        string `json:"FileUrl"`
	IssuedDate     string `json:"IssuedDate"`
	CreatedDate    string `json:"CreatedDate"`
}

func (b BackendCertificate) Certificate() Certificate {
	return Certificate{
		ID:             b.ID,
		UserID:         b.UserID,
		CourseID:       b.CourseID,
		CertificateURL: firstNonEmpty(b.CertificateURL, b.FileURL),
		IssuedAt:       firstNonEmpty(b.IssuedDate, b.CreatedDate),
	}
}

type SendCertificatesInput struct {
	CourseID string   `json:"courseId" binding:"required"`
	UserIDs  []string `json:"userIds" binding:"required,min=1,dive,required"`
}

type GenerateCertificateInput struct {
	UserName    string `json:"userName" form:"userName" binding:"required"`
	CourseTitle string `json:"courseTitle" form:"courseTitle"`
}

type CertificatePayload struct {
	UserID   string `json:"UserId"`
	CourseID string `json:"CourseId"`
}
