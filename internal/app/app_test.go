package app

import (
	"bytes"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/util"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type testBackend struct {
	srv   *httptest.Server
	calls int32
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	tb := &testBackend{}
	tb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tb.calls, 1)
		switch r.Method + " " + r.URL.Path {
		case "POST /Auth/login":
			w.Write([]byte(`{"token":"admin-token","expiresIn":3600}`))
		case "GET /Courses":
			w.Write([]byte(`[{"Id":1,"Title":"Go","Price":10},{"Id":2,"Title":"Rust","Price":12}]`))
		case "GET /News":
			w.Write([]byte(`[{"Id":5,"Title":"Yeni kurs","LanguageName":"English"},{"Id":6,"Title":"Xəbər","LanguageName":"Azerbaijani"}]`))
		case "GET /Courses/1/sections":
			w.Write([]byte(`[{"Id":10,"CourseId":1,"Title":"Intro","OrderNo":1},{"Id":11,"CourseId":1,"Title":"Basics","OrderNo":2}]`))
		case "POST /Courses":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`3`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(tb.srv.Close)
	return tb
}

func (tb *testBackend) callCount() int {
	return int(atomic.LoadInt32(&tb.calls))
}

func newTestConfig(t *testing.T, backendURL, templatePath string) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Backend = config.BackendConfig{
		BaseURL:       backendURL,
		Timeout:       2 * time.Second,
		LongTimeout:   5 * time.Second,
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret",
	}
	cfg.Token = config.TokenConfig{Buffer: 5 * time.Minute, DefaultTTL: time.Hour, Store: util.TokenStoreMemory}
	cfg.Certificate = config.CertificateConfig{TemplatePath: templatePath, NameOffsetY: 300, CourseOffsetY: 170}
	cfg.Log.File = filepath.Join(t.TempDir(), "app.log")
	return cfg
}

func newTestApp(t *testing.T, backendURL, templatePath string) *App {
	t.Helper()
	application, err := NewApp(newTestConfig(t, backendURL, templatePath))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return application
}

func doRequest(a *App, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) util.Response {
	t.Helper()
	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestCreateCourseMissingTitle(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	w := doRequest(a, http.MethodPost, "/api/courses",
		strings.NewReader(`{"description":"d","categoryId":"c1","price":5}`), util.MimeJSON)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Error != "Title is required" || resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if tb.callCount() != 0 {
		t.Fatalf("expected no backend calls, got %d", tb.callCount())
	}
}

func TestCreateCourse(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	w := doRequest(a, http.MethodPost, "/api/courses",
		strings.NewReader(`{"title":"Go","description":"d","categoryId":"c1","price":5}`), util.MimeJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ID != "3" || resp.Data.Title != "Go" {
		t.Fatalf("unexpected course %s", w.Body.String())
	}
}

func TestListingsAreStable(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	for _, target := range []string{"/api/courses", "/api/news", "/api/sections?courseId=1", "/api/sections?courseId=404"} {
		first := doRequest(a, http.MethodGet, target, nil, "")
		second := doRequest(a, http.MethodGet, target, nil, "")
		if first.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, first.Code, first.Body.String())
		}
		if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
			t.Fatalf("%s: listings differ:\n%s\n%s", target, first.Body.String(), second.Body.String())
		}
		if first.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: expected a request id header", target)
		}
	}

	w := doRequest(a, http.MethodGet, "/api/sections?courseId=1", nil, "")
	var resp struct {
		Data []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 2 || resp.Data[0].Title != "Intro" || resp.Data[1].Title != "Basics" {
		t.Fatalf("unexpected sections %s", w.Body.String())
	}
}

func TestNewAppRejectsUnknownCertificateFont(t *testing.T) {
	tb := newTestBackend(t)
	cfg := newTestConfig(t, tb.srv.URL, "../../assets/certificate_template.pdf")
	cfg.Certificate.FontName = "DejaVuSans"

	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected startup to fail for a font that is not installed")
	}
}

func TestGenerateCertificateAzerbaijaniName(t *testing.T) {
	tb := newTestBackend(t)
	body := `{"userName":"Əli Məmmədov","courseTitle":"Giriş"}`

	// core fonts have no "ə"
	a := newTestApp(t, tb.srv.URL, "../../assets/certificate_template.pdf")
	w := doRequest(a, http.MethodPost, "/api/certificates/generate", strings.NewReader(body), util.MimeJSON)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("core font: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	cfg := newTestConfig(t, tb.srv.URL, "../../assets/certificate_template.pdf")
	cfg.Certificate.FontFile = "../../assets/fonts/Roboto-Regular.ttf"
	cfg.Certificate.FontDir = t.TempDir()
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	w = doRequest(a, http.MethodPost, "/api/certificates/generate", strings.NewReader(body), util.MimeJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("bundled font: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("expected a pdf body")
	}
}

func TestGenerateCertificateMissingTemplate(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, filepath.Join(t.TempDir(), "missing.pdf"))

	w := doRequest(a, http.MethodGet, "/api/certificates/generate?userName=Kamal", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateCertificate(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "../../assets/certificate_template.pdf")

	w := doRequest(a, http.MethodPost, "/api/certificates/generate",
		strings.NewReader(`{"userName":"Kamal Quliyev","courseTitle":"Go"}`), util.MimeJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != util.MimePDF {
		t.Fatalf("expected pdf content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "certificate_Kamal_Quliyev.pdf") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("expected a pdf body")
	}
	if tb.callCount() != 0 {
		t.Fatalf("generation should not call the backend, got %d calls", tb.callCount())
	}
}

func TestGenerateCertificateRequiresName(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	w := doRequest(a, http.MethodPost, "/api/certificates/generate", strings.NewReader(`{}`), util.MimeJSON)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != "UserName is required" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestEnrolledUsersNeverFails(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	w := doRequest(a, http.MethodGet, "/api/users/enrolled?courseId=c1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []interface{} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Fatalf("expected empty data array, got %s", w.Body.String())
	}
}

func TestHealthAndTokenStatus(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	if w := doRequest(a, http.MethodGet, "/api/health", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}

	w := doRequest(a, http.MethodPost, "/api/auth/token/refresh", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = doRequest(a, http.MethodGet, "/api/auth/token/status", nil, "")
	if !strings.Contains(w.Body.String(), `"state":"cached"`) {
		t.Fatalf("expected a cached token, got %s", w.Body.String())
	}
}

func TestConfigCallbackSwapsCredentials(t *testing.T) {
	tb := newTestBackend(t)
	a := newTestApp(t, tb.srv.URL, "")

	doRequest(a, http.MethodPost, "/api/auth/token/refresh", nil, "")
	newCfg := *a.Config
	newCfg.Backend.AdminEmail = "rotated@example.com"
	a.applyConfig(&newCfg)

	w := doRequest(a, http.MethodGet, "/api/auth/token/status", nil, "")
	if !strings.Contains(w.Body.String(), `"state":"empty"`) {
		t.Fatalf("expected the token to be dropped, got %s", w.Body.String())
	}
}
