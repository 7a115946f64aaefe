package frontend

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"github.com/labstack/echo/v4"
)

const viewsPattern = "views/*.html"

//go:embed views/*.html
var templateFS embed.FS

// Template renders the embedded views through echo's Renderer interface.
type Template struct {
	templates *template.Template
}

// templateFuncs are available to every view. pathEscape keeps characters such
// as '#' and '?' in a client-supplied extension inside the path segment.
var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

func NewTemplate() *Template {
	return &Template{
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, viewsPattern)),
	}
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
