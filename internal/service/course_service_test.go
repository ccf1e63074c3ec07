package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func imageFile(body string) *backend.FormFile {
	return &backend.FormFile{
		Filename:    "cover.png",
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestCourseCreateJSON(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/Courses", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != util.MimeJSON {
			t.Errorf("expected json, got %q", r.Header.Get("Content-Type"))
		}
		var p model.CoursePayload
		json.NewDecoder(r.Body).Decode(&p)
		if p.Title != "Go" || p.CategoryID != "cat-1" || p.Price != 19.5 {
			t.Errorf("unexpected payload %+v", p)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42}`))
	})
	svc := NewCourseService(fb.client(), fb.tokens())

	course, err := svc.Create(context.Background(), model.CourseInput{Title: "Go", Description: "d", CategoryID: "cat-1", Price: 19.5}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.ID != "42" || course.Title != "Go" || course.Price != 19.5 {
		t.Fatalf("unexpected course %+v", course)
	}
}

func TestCourseCreateWithImageIsMultipart(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/Courses", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("Title") != "Go" || r.FormValue("Price") != "10" || r.FormValue("IsPublished") != "true" {
			t.Errorf("unexpected fields %v", r.MultipartForm.Value)
		}
		f, _, err := r.FormFile("Image")
		if err != nil {
			t.Errorf("expected Image part: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		f.Close()
		if string(data) != "png-bytes" {
			t.Errorf("unexpected image %q", data)
		}
		w.Write([]byte(`{"Id":"c-9","Title":"Go","ImageUrl":"/img/c-9.png"}`))
	})
	svc := NewCourseService(fb.client(), fb.tokens())

	course, err := svc.Create(context.Background(),
		model.CourseInput{Title: "Go", Description: "d", CategoryID: "cat-1", Price: 10, IsPublished: true},
		imageFile("png-bytes"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.ID != "c-9" || course.ImageURL != "/img/c-9.png" {
		t.Fatalf("unexpected course %+v", course)
	}
}

func TestCourseDeleteConflictIsLocalized(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodDelete, "/Courses/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"FK_Sections_Courses"}`))
	})
	svc := NewCourseService(fb.client(), fb.tokens())

	err := svc.Delete(context.Background(), "7")
	if util.StatusOf(err) != http.StatusConflict || err.Error() != courseDeleteOverrides[http.StatusConflict] {
		t.Fatalf("expected localized 409, got %v", err)
	}
	if err := svc.Delete(context.Background(), ""); util.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %v", err)
	}
}

func TestCourseListIsPublic(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/Courses", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("listing should not send a token")
		}
		w.Write([]byte(`[{"Id":1,"Title":"A","CoverImage":"/a.png"},{"Id":"2","Title":"B"}]`))
	})
	svc := NewCourseService(fb.client(), fb.tokens())

	courses, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courses) != 2 || courses[0].ID != "1" || courses[0].ImageURL != "/a.png" {
		t.Fatalf("unexpected courses %+v", courses)
	}
	if fb.loginCount() != 0 {
		t.Fatalf("expected no login, got %d", fb.loginCount())
	}
}

func TestSectionsMissingCourseIsEmpty(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewSectionService(fb.client(), fb.tokens())

	sections, err := svc.ListByCourse(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("expected 404 to read as empty, got %v", err)
	}
	if sections == nil || len(sections) != 0 {
		t.Fatalf("expected empty list, got %#v", sections)
	}
}

func TestLectureCreateNeedsVideo(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewLectureService(fb.client(), fb.tokens())

	_, err := svc.Create(context.Background(), model.LectureInput{SectionID: "s1", Title: "Intro"}, nil)
	if util.StatusOf(err) != http.StatusBadRequest || err.Error() != "video is required" {
		t.Fatalf("expected video is required, got %v", err)
	}
	if len(fb.callLog()) != 0 {
		t.Fatal("expected no backend traffic")
	}
}

func TestLectureCreateUploadsVideo(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/Lectures", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if _, _, err := r.FormFile("Video"); err != nil {
			t.Errorf("expected Video part: %v", err)
		}
		if r.FormValue("SectionId") != "s1" || r.FormValue("Duration") != "90" {
			t.Errorf("unexpected fields %v", r.MultipartForm.Value)
		}
		w.Write([]byte(`15`))
	})
	svc := NewLectureService(fb.client(), fb.tokens())

	video := imageFile("mp4")
	video.Filename = "intro.mp4"
	lecture, err := svc.Create(context.Background(), model.LectureInput{SectionID: "s1", Title: "Intro", Duration: 90}, video)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lecture.ID != "15" || lecture.Title != "Intro" || lecture.SectionID != "s1" {
		t.Fatalf("unexpected lecture %+v", lecture)
	}
}

func TestQuizCorrectOptionMustExist(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewQuizService(fb.client(), fb.tokens())

	_, err := svc.Create(context.Background(), model.QuizInput{
		LectureID:          "l1",
		Question:           "2+2?",
		Options:            []string{"3", "4"},
		CorrectOptionIndex: 2,
	})
	if util.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if len(fb.callLog()) != 0 {
		t.Fatal("expected no backend traffic")
	}
}

func TestQuizPayloadMarksCorrectAnswer(t *testing.T) {
	p := model.QuizInput{LectureID: "l1", Question: "2+2?", Options: []string{"3", "4", "5"}, CorrectOptionIndex: 1}.Payload("")
	if len(p.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(p.Answers))
	}
	for i, a := range p.Answers {
		if a.IsCorrect != (i == 1) {
			t.Fatalf("answer %d: unexpected IsCorrect %v", i, a.IsCorrect)
		}
	}
}

func TestCourseBatchUpdate(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPut, "/Courses/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewCourseService(fb.client(), fb.tokens())

	results := svc.BatchUpdate(context.Background(), []model.CourseDetailsUpdate{
		{ID: "1", Input: model.CourseInput{Title: "A"}},
		{ID: "", Input: model.CourseInput{Title: "B"}},
	})
	if len(results) != 2 || !results[0].Success || results[1].Success {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[1].Error != "id is required" {
		t.Fatalf("unexpected error %q", results[1].Error)
	}
}
