package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

const (
	pageList = "list.html"
	pageForm = "form.html"
)

// Templates parses every page together with the shared layout and serves
// them to gin through render.HTMLRender.
type Templates struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Templates)(nil)

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"opt": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"optInt": func(n *int) string {
			if n == nil {
				return ""
			}
			return fmt.Sprint(*n)
		},
		"dec": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(tfs fs.FS) (*Templates, error) {
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range []string{pageList, pageForm} {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl, err := template.New(page).Funcs(FuncMap()).Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		if tmpl, err = tmpl.Parse(string(pageBytes)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Instance renders the named page inside the layout.
func (ts *Templates) Instance(name string, data any) render.Render {
	tmpl, ok := ts.templates[name]
	if !ok {
		return render.String{Format: "template %s not found", Data: []any{name}}
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}
