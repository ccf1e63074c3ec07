package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/util"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// fakeBackend counts logins and lets each test route the other paths.
type fakeBackend struct {
	srv    *httptest.Server
	logins int32
	login  http.HandlerFunc
	routes map[string]http.HandlerFunc
	mu     sync.Mutex
	calls  []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{routes: map[string]http.HandlerFunc{}}
	fb.login = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-1","expiration":"` + time.Now().Add(time.Hour).UTC().Format(time.RFC3339) + `"}`))
	}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			atomic.AddInt32(&fb.logins, 1)
			fb.login(w, r)
			return
		}
		key := r.Method + " " + r.URL.Path
		fb.mu.Lock()
		fb.calls = append(fb.calls, key)
		fb.mu.Unlock()
		if h, ok := fb.routes[key]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) handle(method, path string, h http.HandlerFunc) {
	fb.routes[method+" "+path] = h
}

func (fb *fakeBackend) loginCount() int {
	return int(atomic.LoadInt32(&fb.logins))
}

func (fb *fakeBackend) callLog() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.calls...)
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.NewClient(config.BackendConfig{BaseURL: fb.srv.URL, Timeout: 2 * time.Second}, fb.srv.Client())
}

func (fb *fakeBackend) tokens() *AdminTokenService {
	return NewAdminTokenService(fb.client(), NewMemoryTokenStore(),
		config.BackendConfig{AdminEmail: "admin@example.com", AdminPassword: "secret"},
		config.TokenConfig{Buffer: DefaultBuffer, DefaultTTL: time.Hour})
}

func TestTokenReusedUntilBuffer(t *testing.T) {
	fb := newFakeBackend(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fb.login = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-1","expiresIn":3600}`))
	}
	svc := fb.tokens()
	now := base
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := svc.Token(ctx); err != nil {
		t.Fatalf("token: %v", err)
	}
	if fb.loginCount() != 1 {
		t.Fatalf("expected 1 login, got %d", fb.loginCount())
	}

	now = base.Add(54 * time.Minute)
	if _, err := svc.Token(ctx); err != nil {
		t.Fatalf("token: %v", err)
	}
	if fb.loginCount() != 1 {
		t.Fatalf("expected cached token before buffer, got %d logins", fb.loginCount())
	}

	now = base.Add(56 * time.Minute)
	if _, err := svc.Token(ctx); err != nil {
		t.Fatalf("token: %v", err)
	}
	if fb.loginCount() != 2 {
		t.Fatalf("expected a new login inside the buffer, got %d logins", fb.loginCount())
	}
}

func TestTokenStaleExpiryFallsBackToDefaultTTL(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"ttl in expiry field", `{"token":"tok-1","expires":3600}`},
		{"expiry inside buffer", `{"token":"tok-1","expiration":"` + time.Now().Add(time.Minute).UTC().Format(time.RFC3339) + `"}`},
		{"expiry in the past", `{"token":"tok-1","expiresAt":"2020-01-01T00:00:00Z"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.login = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}
			svc := fb.tokens()
			ctx := context.Background()

			for i := 0; i < 2; i++ {
				if _, err := svc.Token(ctx); err != nil {
					t.Fatalf("token: %v", err)
				}
			}
			if fb.loginCount() != 1 {
				t.Fatalf("expected the second call to reuse the token, got %d logins", fb.loginCount())
			}
			status, err := svc.Status(ctx)
			if err != nil {
				t.Fatalf("status: %v", err)
			}
			if status.State != TokenStateCached || status.ExpiresAt.Before(time.Now().Add(50*time.Minute)) {
				t.Fatalf("expected the default ttl to apply, got %+v", status)
			}
		})
	}
}

func TestTokenConcurrentCallersShareLogin(t *testing.T) {
	fb := newFakeBackend(t)
	release := make(chan struct{})
	fb.login = func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"token":"shared","expiresIn":3600}`))
	}
	svc := fb.tokens()

	const callers = 10
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = svc.Token(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range tokens {
		if errs[i] != nil || tokens[i] != "shared" {
			t.Fatalf("caller %d got %q, %v", i, tokens[i], errs[i])
		}
	}
	if fb.loginCount() != 1 {
		t.Fatalf("expected a single login, got %d", fb.loginCount())
	}
}

func TestTokenLoginFailures(t *testing.T) {
	cases := []struct {
		name  string
		login http.HandlerFunc
	}{
		{"rejected", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
		}},
		{"no token", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user":"admin"}`))
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.login = tc.login
			_, err := fb.tokens().Token(context.Background())
			var authErr *util.AuthenticationError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthenticationError, got %v", err)
			}
			if util.StatusOf(err) != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", util.StatusOf(err))
			}
		})
	}
}

func TestTokenMissingCredentials(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewAdminTokenService(fb.client(), NewMemoryTokenStore(), config.BackendConfig{}, config.TokenConfig{})
	_, err := svc.Token(context.Background())
	if !errors.Is(err, util.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials, got %v", err)
	}
	if fb.loginCount() != 0 {
		t.Fatalf("expected no login call, got %d", fb.loginCount())
	}
}

func TestTokenExpiryFromJWT(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	fb := newFakeBackend(t)
	fb.login = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(signed))
	}
	svc := fb.tokens()
	token, err := svc.Token(context.Background())
	if err != nil || token != signed {
		t.Fatalf("expected bare jwt, got %q, %v", token, err)
	}
	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.State != TokenStateCached || status.ExpiresAt == nil || !status.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestParseLoginResponse(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		body    string
		token   string
		expires time.Time
	}{
		{"rfc3339", `{"token":"a","expiration":"2026-01-01T02:00:00Z"}`, "a", now.Add(2 * time.Hour)},
		{"dotnet local", `{"Token":"b","Expiration":"2026-01-01T03:00:00"}`, "b", now.Add(3 * time.Hour)},
		{"expires in", `{"accessToken":"c","expires_in":60}`, "c", now.Add(time.Minute)},
		{"wrapped", `{"data":{"token":"d","expiresAt":1767225600}}`, "d", time.Unix(1767225600, 0)},
		{"json string", `"e"`, "e", time.Time{}},
		{"no expiry", `{"jwt":"f"}`, "f", time.Time{}},
		{"plain text", "not a token", "", time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, expires := parseLoginResponse([]byte(tc.body), now)
			if token != tc.token || !expires.Equal(tc.expires) {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.token, tc.expires, token, expires)
			}
		})
	}
}

func TestDoRetriesOnceAfterUnauthorized(t *testing.T) {
	fb := newFakeBackend(t)
	var n int32
	fb.login = func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.Write([]byte(`{"token":"old","expiresIn":3600}`))
			return
		}
		w.Write([]byte(`{"token":"new","expiresIn":3600}`))
	}
	fb.handle(http.MethodGet, "/Users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	})

	svc := fb.tokens()
	client := fb.client()
	var attempts int
	err := svc.Do(context.Background(), func(token string) error {
		attempts++
		return client.Call(context.Background(), &backend.Request{Method: http.MethodGet, Path: "/Users", Token: token}, nil)
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 || fb.loginCount() != 2 {
		t.Fatalf("expected 2 attempts and 2 logins, got %d and %d", attempts, fb.loginCount())
	}
}

func TestSetCredentialsClearsToken(t *testing.T) {
	fb := newFakeBackend(t)
	svc := fb.tokens()
	ctx := context.Background()
	if _, err := svc.Token(ctx); err != nil {
		t.Fatalf("token: %v", err)
	}

	svc.SetCredentials(ctx, "admin@example.com", "secret")
	if status, _ := svc.Status(ctx); status.State != TokenStateCached {
		t.Fatalf("unchanged credentials should keep the token, got %s", status.State)
	}

	svc.SetCredentials(ctx, "other@example.com", "secret")
	if status, _ := svc.Status(ctx); status.State != TokenStateEmpty {
		t.Fatalf("changed credentials should drop the token, got %s", status.State)
	}
}
