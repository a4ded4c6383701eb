package echoapi

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var (
	//go:embed templates/*.gohtml
	templatesFS embed.FS

	baseTemplate = "templates/_base.gohtml"
)

// templateRenderer renders pages: each page template is parsed together with the base layout.
type templateRenderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

func newTemplateRenderer() (*templateRenderer, error) {
	pages, err := fs.Glob(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}

	r := &templateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".gohtml")
		if strings.HasPrefix(name, "_") { // layouts
			continue
		}
		tmpl, err := template.ParseFS(templatesFS, baseTemplate, page)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", page)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// render adds the current student and messages to data and renders the page.
func render(ctx echo.Context, code int, name string, data echo.Map, messages ...string) error {
	if data == nil {
		data = echo.Map{}
	}
	if std, ok := getContextStudent(ctx); ok {
		data["student"] = std
	}
	data["messages"] = messages
	return ctx.Render(code, name, data)
}
