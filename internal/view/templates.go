package view

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/smg-ev/vendor-portal/internal/shared"
	"github.com/smg-ev/vendor-portal/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title string
	Data  any
}

// NewEngine parses the embedded document templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"money":   shared.FormatMoney,
		"qty":     shared.FormatQty,
		"percent": shared.FormatPercent,
		"inc":     func(i int) int { return i + 1 },
		"lines": func(s string) []string {
			var out []string
			for _, line := range strings.Split(s, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					out = append(out, line)
				}
			}
			return out
		},
		"align": func(a string) string {
			switch a {
			case "R":
				return "right"
			case "C":
				return "center"
			default:
				return "left"
			}
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/documents/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Execute writes a named template to w.
func (e *Engine) Execute(w io.Writer, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}

// Render executes a named template with TemplateData as an HTML response.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
