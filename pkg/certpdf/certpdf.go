// Package certpdf stamps a recipient's name and course title onto the
// certificate template.
package certpdf

import (
	"bytes"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/util"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

const (
	defaultFont     = "Helvetica-Bold"
	defaultFontSize = 36
	defaultColor    = "#1F2A44"
)

var (
	disableConfigDir sync.Once
	// font.UserFontDir and the loaded metrics are package globals in pdfcpu.
	installMu sync.Mutex
)

// Renderer draws onto the first page of a template PDF. The template is read
// on every call, so replacing the file takes effect immediately.
type Renderer struct {
	templatePath   string
	fontName       string
	fontSize       int
	nameOffsetY    float64
	courseOffsetY  float64
	courseFontSize int
	color          string
}

// New installs cfg.FontFile when set and fails unless the resulting font
// name is a core font or a loaded TrueType font.
func New(cfg config.CertificateConfig) (*Renderer, error) {
	// pdfcpu would otherwise create a config dir under the user's home
	disableConfigDir.Do(api.DisableConfigDir)

	r := &Renderer{
		templatePath:   cfg.TemplatePath,
		fontName:       cfg.FontName,
		fontSize:       cfg.FontSize,
		nameOffsetY:    cfg.NameOffsetY,
		courseOffsetY:  cfg.CourseOffsetY,
		courseFontSize: cfg.CourseFontSz,
		color:          cfg.Color,
	}
	if cfg.FontFile != "" {
		if err := installFont(cfg.FontFile, cfg.FontDir); err != nil {
			return nil, fmt.Errorf("install certificate font %s: %w", cfg.FontFile, err)
		}
		if r.fontName == "" {
			r.fontName = strings.TrimSuffix(filepath.Base(cfg.FontFile), filepath.Ext(cfg.FontFile))
		}
	}
	if r.fontName == "" {
		r.fontName = defaultFont
	}
	if !font.SupportedFont(r.fontName) {
		return nil, fmt.Errorf("certificate font %q is neither a core font nor an installed font", r.fontName)
	}
	if r.fontSize <= 0 {
		r.fontSize = defaultFontSize
	}
	if r.courseFontSize <= 0 {
		r.courseFontSize = r.fontSize / 2
	}
	if r.color == "" {
		r.color = defaultColor
	}
	return r, nil
}

// installFont converts a TrueType file into pdfcpu's font cache under dir
// and reloads the user font metrics. The installed name is the font's
// PostScript name, which for the bundled fonts matches the file name.
func installFont(file, dir string) error {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "course_admin_gateway", "fonts")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	installMu.Lock()
	defer installMu.Unlock()
	font.UserFontDir = dir
	if err := font.InstallTrueTypeFont(dir, file); err != nil {
		return err
	}
	return font.LoadUserFonts()
}

// FontName is the font the renderer stamps with.
func (r *Renderer) FontName() string {
	return r.fontName
}

// Unsupported lists the distinct runes of text the renderer's font cannot
// draw. Core fonts are written in WinAnsi; TrueType fonts need a cmap entry.
func (r *Renderer) Unsupported(text string) []rune {
	var missing []rune
	seen := make(map[rune]bool)
	add := func(c rune) {
		if !seen[c] {
			seen[c] = true
			missing = append(missing, c)
		}
	}

	if font.IsCoreFont(r.fontName) {
		for _, c := range text {
			if _, ok := charmap.Windows1252.EncodeRune(c); !ok {
				add(c)
			}
		}
		return missing
	}

	font.UserFontMetricsLock.RLock()
	defer font.UserFontMetricsLock.RUnlock()
	chars := font.UserFontMetrics[r.fontName].Chars
	for _, c := range text {
		if _, ok := chars[uint32(c)]; !ok {
			add(c)
		}
	}
	return missing
}

func (r *Renderer) checkGlyphs(field, text string) error {
	missing := r.Unsupported(text)
	if len(missing) == 0 {
		return nil
	}
	return util.Invalid(field, fmt.Sprintf("%s contains characters the certificate font %s cannot draw: %q",
		field, r.fontName, string(missing)))
}

// Render returns the template with userName centred on the name line and,
// when given, courseTitle centred on the course line.
func (r *Renderer) Render(userName, courseTitle string) ([]byte, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, util.Required("userName")
	}
	courseTitle = strings.TrimSpace(courseTitle)
	if err := r.checkGlyphs("userName", userName); err != nil {
		return nil, err
	}
	if err := r.checkGlyphs("courseTitle", courseTitle); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.templatePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &util.TemplateNotFoundError{Path: r.templatePath}
	}
	if err != nil {
		return nil, fmt.Errorf("read certificate template: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read certificate template: %w", err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("certificate template %s has no pages", r.templatePath)
	}
	pageWidth := dims[0].Width

	data, err = r.stamp(data, conf, userName, r.fontSize, pageWidth, r.nameOffsetY)
	if err != nil {
		return nil, err
	}
	if courseTitle != "" {
		data, err = r.stamp(data, conf, courseTitle, r.courseFontSize, pageWidth, r.courseOffsetY)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (r *Renderer) stamp(data []byte, conf *model.Configuration, text string, size int, pageWidth, y float64) ([]byte, error) {
	x := CenteredX(pageWidth, font.TextWidth(text, r.fontName, size))
	desc := fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%.2f %.2f, scalefactor:1 abs, rotation:0, opacity:1, fillcolor:%s",
		r.fontName, size, x, y, r.color)

	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("prepare certificate text: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(data), &out, []string{"1"}, wm, conf); err != nil {
		return nil, fmt.Errorf("stamp certificate: %w", err)
	}
	return out.Bytes(), nil
}

// CenteredX is the left edge that centres a run of textWidth on the page.
// Text wider than the page starts at the left margin.
func CenteredX(pageWidth, textWidth float64) float64 {
	x := (pageWidth - textWidth) / 2
	if x < 0 {
		return 0
	}
	return x
}
