package model

import (
	"strings"

	"github.com/google/uuid"
)

// Language is one of the content languages news articles are published in.
type Language int

const (
	LanguageUnknown Language = iota
	Azerbaijani
	English
	Russian
)

type languageInfo struct {
	iso  string
	name string
	// names the backend has accepted at one point or another, preferred first
	variants []string
}

var languageTable = map[Language]languageInfo{
	Azerbaijani: {iso: "az", name: "Azərbaycan", variants: []string{"Azərbaycan", "Azerbaijani", "Azərbaycan dili", "Azerbaijan", "AZ"}},
	English:     {iso: "en", name: "English", variants: []string{"English", "İngilis", "İngilis dili", "EN"}},
	Russian:     {iso: "ru", name: "Русский", variants: []string{"Русский", "Russian", "Rus", "Rus dili", "RU"}},
}

var AllLanguages = []Language{Azerbaijani, English, Russian}

func (l Language) ISO() string { return languageTable[l].iso }

// BackendName is the name the backend expects by default.
func (l Language) BackendName() string { return languageTable[l].name }

func (l Language) NameVariants() []string {
	return append([]string(nil), languageTable[l].variants...)
}

func (l Language) String() string {
	if l == LanguageUnknown {
		return "unknown"
	}
	return languageTable[l].iso
}

// LanguageRegistry resolves languages from any of the identifiers the UI and
// the backend use for them: record GUID, ISO code, or a display name.
type LanguageRegistry struct {
	ids  map[Language]uuid.UUID
	byID map[uuid.UUID]Language
}

// NewLanguageRegistry builds a registry from the backend's language record
// ids. Languages with an empty or malformed id simply have no GUID.
func NewLanguageRegistry(ids map[Language]string) *LanguageRegistry {
	r := &LanguageRegistry{
		ids:  make(map[Language]uuid.UUID),
		byID: make(map[uuid.UUID]Language),
	}
	for lang, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		r.ids[lang] = id
		r.byID[id] = lang
	}
	return r
}

// Parse accepts a GUID, an ISO code, or any known name, case-insensitively.
func (r *LanguageRegistry) Parse(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LanguageUnknown, false
	}
	if id, err := uuid.Parse(s); err == nil {
		lang, ok := r.byID[id]
		return lang, ok
	}
	for _, lang := range AllLanguages {
		info := languageTable[lang]
		if strings.EqualFold(s, info.iso) || strings.EqualFold(s, info.name) {
			return lang, true
		}
		for _, v := range info.variants {
			if strings.EqualFold(s, v) {
				return lang, true
			}
		}
	}
	return LanguageUnknown, false
}

// GUID returns the backend record id of l.
func (r *LanguageRegistry) GUID(l Language) (uuid.UUID, bool) {
	id, ok := r.ids[l]
	return id, ok
}

// LanguageOption is a row of the language picker.
type LanguageOption struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (r *LanguageRegistry) Options() []LanguageOption {
	opts := make([]LanguageOption, 0, len(AllLanguages))
	for _, lang := range AllLanguages {
		opt := LanguageOption{Code: lang.ISO(), Name: lang.BackendName()}
		if id, ok := r.ids[lang]; ok {
			opt.ID = id.String()
		}
		opts = append(opts, opt)
	}
	return opts
}
