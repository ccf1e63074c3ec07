package backend

import (
	"net/http"
	"strings"
	"testing"
)

func TestDecodeKinds(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Kind
	}{
		{"empty", "", KindEmpty},
		{"whitespace", "  \n\t", KindEmpty},
		{"object", `{"message":"x"}`, KindJSON},
		{"string", `"plain json string"`, KindJSON},
		{"text", "Course not found", KindText},
		{"html", "<html><body>Bad gateway</body></html>", KindText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decode([]byte(tc.body)).Kind; got != tc.want {
				t.Fatalf("expected kind %d, got %d", tc.want, got)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		status   int
		contains []string
	}{
		{"message field", `{"message":"Title already taken"}`, 400, []string{"Title already taken"}},
		{"error before message", `{"error":"boom","message":"ignored"}`, 500, []string{"boom"}},
		{"case insensitive", `{"Message":"Upper case key"}`, 400, []string{"Upper case key"}},
		{"title", `{"title":"One or more validation errors occurred."}`, 400, []string{"One or more validation errors occurred."}},
		{"nested error", `{"error":{"message":"nested"}}`, 400, []string{"nested"}},
		{
			"errors map",
			`{"title":"Validation failed","errors":{"Title":["The Title field is required."],"Price":["Must be positive"]}}`,
			400,
			[]string{"Validation failed", "Title", "The Title field is required.", "Price", "Must be positive"},
		},
		{"errors map only", `{"errors":{"CategoryId":["invalid"]}}`, 400, []string{"CategoryId: invalid"}},
		{"raw text", "Course not found", 404, []string{"Course not found"}},
		{"html falls back to status", "<!DOCTYPE html><html></html>", 502, []string{http.StatusText(502)}},
		{"empty falls back to status", "", 409, []string{http.StatusText(409)}},
		{"json without message", `{"foo":1}`, 500, []string{http.StatusText(500)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := Message(Decode([]byte(tc.body)), tc.status)
			for _, want := range tc.contains {
				if !strings.Contains(msg, want) {
					t.Fatalf("expected %q to contain %q", msg, want)
				}
			}
		})
	}
}

func TestMessageErrorsMapIsStable(t *testing.T) {
	body := []byte(`{"errors":{"b":["2"],"a":["1"],"c":"3"}}`)
	first := Message(Decode(body), 400)
	for i := 0; i < 20; i++ {
		if got := Message(Decode(body), 400); got != first {
			t.Fatalf("message changed between calls: %q vs %q", first, got)
		}
	}
	if first != "a: 1; b: 2; c: 3" {
		t.Fatalf("unexpected message %q", first)
	}
}

func TestMessageTruncatesLongText(t *testing.T) {
	long := strings.Repeat("ə", maxTextMessage+10)
	msg := Message(Decode([]byte(long)), 500)
	if !strings.HasSuffix(msg, "...") {
		t.Fatalf("expected truncated message, got %d runes", len([]rune(msg)))
	}
	if got := len([]rune(msg)); got != maxTextMessage+3 {
		t.Fatalf("expected %d runes, got %d", maxTextMessage+3, got)
	}
}
