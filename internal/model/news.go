package model

type NewsItem struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Language    string `json:"language,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

type BackendNews struct {
	ID           ID     `json:"Id"`
	Title        string `json:"Title"`
	Content      string `json:"Content"`
	ImageURL     string `json:"ImageUrl"`
	LanguageID   string `json:"LanguageId"`
	LanguageName string `json:"LanguageName"`
	Language     string `json:"Language"`
	CreatedDate  string `json:"CreatedDate"`
}

// NewsItem maps the backend record; the language is reported as an ISO code
// when it can be resolved and passed through untouched otherwise.
func (b BackendNews) NewsItem(languages *LanguageRegistry) NewsItem {
	item := NewsItem{
		ID:          b.ID,
		Title:       b.Title,
		Content:     b.Content,
		ImageURL:    b.ImageURL,
		PublishedAt: b.CreatedDate,
	}
	for _, candidate := range []string{b.LanguageID, b.LanguageName, b.Language} {
		if lang, ok := languages.Parse(candidate); ok {
			item.Language = lang.ISO()
			return item
		}
	}
	item.Language = firstNonEmpty(b.LanguageName, b.Language, b.LanguageID)
	return item
}

type NewsInput struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
	Language string `json:"language" binding:"required"`
}

type NewsPayload struct {
	ID           string `json:"Id,omitempty"`
	Title        string `json:"Title"`
	Content      string `json:"Content"`
	ImageURL     string `json:"ImageUrl,omitempty"`
	LanguageID   string `json:"LanguageId,omitempty"`
	LanguageName string `json:"LanguageName"`
}

type NewsDetailsUpdate struct {
	ID    string    `json:"id" binding:"required"`
	Input NewsInput `json:"news"`
}
