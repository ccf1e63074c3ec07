package model

type Quiz struct {
	ID                 ID       `json:"id"`
	LectureID          ID       `json:"lectureId"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

type BackendAnswer struct {
	ID        ID     `json:"Id,omitempty"`
	Text      string `json:"Text"`
	IsCorrect bool   `json:"IsCorrect"`
}

type BackendQuiz struct {
	ID           ID              `json:"Id"`
	LectureID    ID              `json:"LectureId"`
	QuestionText string          `json:"QuestionText"`
	Answers      []BackendAnswer `json:"Answers"`
}

// Quiz flattens the answers; when none is marked correct the index is -1.
func (b BackendQuiz) Quiz() Quiz {
	q := Quiz{
		ID:                 b.ID,
		LectureID:          b.LectureID,
		Question:           b.QuestionText,
		Options:            make([]string, 0, len(b.Answers)),
		CorrectOptionIndex: -1,
	}
	for i, a := range b.Answers {
		q.Options = append(q.Options, a.Text)
		if a.IsCorrect && q.CorrectOptionIndex < 0 {
			q.CorrectOptionIndex = i
		}
	}
	return q
}

type QuizInput struct {
	LectureID          string   `json:"lectureId" binding:"required"`
	Question           string   `json:"question" binding:"required"`
	Options            []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectOptionIndex int      `json:"correctOptionIndex" binding:"gte=0"`
}

type QuizPayload struct {
	ID           string          `json:"Id,omitempty"`
	LectureID    string          `json:"LectureId"`
	QuestionText string          `json:"QuestionText"`
	Answers      []BackendAnswer `json:"Answers"`
}

func (in QuizInput) Payload(id string) QuizPayload {
	p := QuizPayload{
		ID:           id,
		LectureID:    in.LectureID,
		QuestionText: in.Question,
		Answers:      make([]BackendAnswer, 0, len(in.Options)),
	}
	for i, opt := range in.Options {
		p.Answers = append(p.Answers, BackendAnswer{Text: opt, IsCorrect: i == in.CorrectOptionIndex})
	}
	return p
}
