package service

import (
	"bytes"
	"context"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/util"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type stubRenderer struct {
	data []byte
	err  error
	name string
}

func (r *stubRenderer) Render(userName, courseTitle string) ([]byte, error) {
	r.name = userName
	return r.data, r.err
}

type failingProvider struct{}

func (failingProvider) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingProvider) URL(key string) string { return key }

func TestCertificateFind(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		wantID model.ID
		found  bool
	}{
		{"object", http.StatusOK, `{"Id":"cert-1","CourseId":"c1","FileUrl":"/files/c.pdf"}`, "cert-1", true},
		{"wrapped object", http.StatusOK, `{"success":true,"data":{"Id":"cert-3","CourseId":"c1"}}`, "cert-3", true},
		{"array", http.StatusOK, `[{"Id":"x","CourseId":"other"},{"Id":"cert-2","CourseId":"C1"}]`, "cert-2", true},
		{"array without match", http.StatusOK, `[{"Id":"x","CourseId":"other"}]`, "", false},
		{"not found", http.StatusNotFound, ``, "", false},
		{"empty object", http.StatusOK, `{}`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.handle(http.MethodGet, "/Certificates", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("userId") != "u1" || r.URL.Query().Get("courseId") != "c1" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			svc := NewCertificateService(fb.client(), fb.tokens(), &stubRenderer{}, nil, false)

			cert, err := svc.Find(context.Background(), "u1", "c1")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if (cert != nil) != tc.found {
				t.Fatalf("expected found=%v, got %+v", tc.found, cert)
			}
			if cert != nil && cert.ID != tc.wantID {
				t.Fatalf("expected %s, got %s", tc.wantID, cert.ID)
			}
		})
	}
}

func TestCertificateSendIsPerRecipient(t *testing.T) {
	fb := newFakeBackend(t)
	var order []string
	fb.handle(http.MethodPost, "/Certificates", func(w http.ResponseWriter, r *http.Request) {
		var p model.CertificatePayload
		json.NewDecoder(r.Body).Decode(&p)
		order = append(order, p.UserID)
		if p.UserID == "u2" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Course not completed"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	svc := NewCertificateService(fb.client(), fb.tokens(), &stubRenderer{}, nil, false)

	results, err := svc.Send(context.Background(), model.SendCertificatesInput{CourseID: "c1", UserIDs: []string{"u1", "u2", "u3"}})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(results) != 3 || !results[0].Success || results[1].Success || !results[2].Success {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[1].Error != "Course not completed" {
		t.Fatalf("unexpected error %q", results[1].Error)
	}
	if len(order) != 3 || order[0] != "u1" || order[1] != "u2" || order[2] != "u3" {
		t.Fatalf("expected recipients in order, got %v", order)
	}
}

func TestCertificateSendValidates(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewCertificateService(fb.client(), fb.tokens(), &stubRenderer{}, nil, false)

	if _, err := svc.Send(context.Background(), model.SendCertificatesInput{CourseID: "c1"}); util.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without recipients, got %v", err)
	}
	if _, err := svc.Find(context.Background(), "", "c1"); util.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without user, got %v", err)
	}
	if len(fb.callLog()) != 0 {
		t.Fatal("expected no backend traffic")
	}
}

func TestCertificateGenerateArchives(t *testing.T) {
	fb := newFakeBackend(t)
	root := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: root})
	renderer := &stubRenderer{data: []byte("%PDF-1.4 test")}
	svc := NewCertificateService(fb.client(), fb.tokens(), renderer, storage, true)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	cert, err := svc.Generate(context.Background(), "Leyla Əliyeva", "Go")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cert.Filename != "certificate_Leyla_Əliyeva.pdf" || cert.ContentType != util.MimePDF {
		t.Fatalf("unexpected certificate %+v", cert)
	}
	if cert.ArchiveURL != "/uploads/certificates/2026-03-01/certificate_Leyla_Əliyeva.pdf" {
		t.Fatalf("unexpected archive url %q", cert.ArchiveURL)
	}
	stored, err := os.ReadFile(filepath.Join(root, "certificates", "2026-03-01", cert.Filename))
	if err != nil {
		t.Fatalf("read archived copy: %v", err)
	}
	if !bytes.Equal(stored, renderer.data) {
		t.Fatal("archived copy differs from the rendered pdf")
	}
	if len(fb.callLog()) != 0 || fb.loginCount() != 0 {
		t.Fatal("generation should not touch the backend")
	}
}

func TestCertificateGenerateArchiveFailureIsNotFatal(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewCertificateService(fb.client(), fb.tokens(), &stubRenderer{data: []byte("%PDF")}, &StorageService{Provider: failingProvider{}}, true)

	cert, err := svc.Generate(context.Background(), "Kamal", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cert.ArchiveURL != "" || len(cert.Data) == 0 {
		t.Fatalf("unexpected certificate %+v", cert)
	}
}

func TestCertificateGenerateRendererError(t *testing.T) {
	fb := newFakeBackend(t)
	renderer := &stubRenderer{err: &util.TemplateNotFoundError{Path: "missing.pdf"}}
	svc := NewCertificateService(fb.client(), fb.tokens(), renderer, nil, false)

	_, err := svc.Generate(context.Background(), "Kamal", "")
	if util.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
