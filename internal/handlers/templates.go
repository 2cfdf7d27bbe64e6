package handlers

import (
	"html/template"
	"log/slog"
	"path/filepath"
	"sync"
)

// TemplateCache holds parsed templates. Every page is parsed together with
// the shared partials (navbar, footer, flashes).
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: make(template.FuncMap),
	}
}

// Load parses all page templates in the templates/ dir, each combined with
// the partials under templates/partials/.
func (tc *TemplateCache) Load(dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.funcs["prevPage"] = func(currentPage int) int {
		return currentPage - 1
	}
	tc.funcs["nextPage"] = func(currentPage int) int {
		return currentPage + 1
	}
	// stars renders an integer 1-5 rating as filled/empty glyph classes.
	tc.funcs["stars"] = StarGlyphs

	partials, err := filepath.Glob(filepath.Join(dir, "partials", "*.html"))
	if err != nil {
		return err
	}

	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	for _, page := range pages {
		name := filepath.Base(page)
		files := append(append([]string(nil), partials...), page)
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFiles(files...)
		if err != nil {
			slog.Error("Failed to parse template", "file", page, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// StarGlyphs maps a rating to five glyph classes. Integer ratings produce
// filled/empty stars; fractional averages (admin testimonials summary) get
// a half glyph. Accepts whatever numeric type the template hands over.
func StarGlyphs(rating interface{}) []string {
	var value float64
	switch v := rating.(type) {
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case float64:
		value = v
	}

	glyphs := make([]string, 5)
	for i := 0; i < 5; i++ {
		switch {
		case value >= float64(i)+1:
			glyphs[i] = "filled"
		case value >= float64(i)+0.5:
			glyphs[i] = "half"
		default:
			glyphs[i] = "empty"
		}
	}
	return glyphs
}
