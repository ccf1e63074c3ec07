package model

import (
	"encoding/json"
	"testing"
)

const azID = "3f2b8c1e-7a4d-4c1b-9e2f-0a6d5b7c8e91"

func TestLanguageRegistryParse(t *testing.T) {
	r := NewLanguageRegistry(map[Language]string{
		Azerbaijani: azID,
		English:     "not-a-guid",
	})

	cases := []struct {
		in   string
		want Language
		ok   bool
	}{
		{azID, Azerbaijani, true},
		{"3F2B8C1E-7A4D-4C1B-9E2F-0A6D5B7C8E91", Azerbaijani, true},
		{"az", Azerbaijani, true},
		{" EN ", English, true},
		{"azərbaycan", Azerbaijani, true},
		{"Azerbaijani", Azerbaijani, true},
		{"Русский", Russian, true},
		{"rus", Russian, true},
		{"İngilis dili", English, true},
		{"de", LanguageUnknown, false},
		{"", LanguageUnknown, false},
		{"8d1e4f2a-5b6c-4d7e-8f90-1a2b3c4d5e6f", LanguageUnknown, false},
	}
	for _, tc := range cases {
		got, ok := r.Parse(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Parse(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLanguageRegistryGUID(t *testing.T) {
	r := NewLanguageRegistry(map[Language]string{Azerbaijani: azID, English: ""})
	if id, ok := r.GUID(Azerbaijani); !ok || id.String() != azID {
		t.Fatalf("unexpected az guid %v %v", id, ok)
	}
	if _, ok := r.GUID(English); ok {
		t.Fatal("english should have no guid")
	}

	opts := r.Options()
	if len(opts) != 3 || opts[0].Code != "az" || opts[0].ID != azID || opts[1].ID != "" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestNameVariantsStartWithBackendName(t *testing.T) {
	for _, lang := range AllLanguages {
		variants := lang.NameVariants()
		if len(variants) == 0 || variants[0] != lang.BackendName() {
			t.Fatalf("%s: variants %v should start with %q", lang, variants, lang.BackendName())
		}
		variants[0] = "mutated"
		if lang.NameVariants()[0] == "mutated" {
			t.Fatalf("%s: NameVariants must return a copy", lang)
		}
	}
}

func TestNewsItemLanguage(t *testing.T) {
	r := NewLanguageRegistry(map[Language]string{Azerbaijani: azID})
	cases := []struct {
		record BackendNews
		want   string
	}{
		{BackendNews{LanguageID: azID}, "az"},
		{BackendNews{LanguageName: "Russian"}, "ru"},
		{BackendNews{Language: "en"}, "en"},
		{BackendNews{LanguageName: "Deutsch"}, "Deutsch"},
	}
	for _, tc := range cases {
		if got := tc.record.NewsItem(r).Language; got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestIDUnmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"guid-1","b":42,"c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "guid-1" || v.B != "42" || !v.C.Empty() {
		t.Fatalf("unexpected ids %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &v); err == nil {
		t.Fatal("expected an error for a boolean id")
	}
}

func TestBackendUserMapping(t *testing.T) {
	u := BackendUser{ID: "1", FirstName: "Aysel", LastName: "Məmmədova", Roles: []string{"Admin"}}.User()
	if u.FullName != "Aysel Məmmədova" || u.Role != "Admin" || u.EnrolledCourseIDs == nil {
		t.Fatalf("unexpected user %+v", u)
	}
	if !(BackendUser{EnrolledCourseIDs: []ID{"ABC"}}).EnrolledIn("abc") {
		t.Fatal("course ids should compare case-insensitively")
	}
}
