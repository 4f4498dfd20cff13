// Package templates renders the HTML views from embedded template files.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed *.tmpl
var files embed.FS

var funcMap = template.FuncMap{
	// Page buttons render zero-padded two-digit labels.
	"pad2": func(n int) string {
		return fmt.Sprintf("%02d", n)
	},
	"score": func(s float64) string {
		if s == 0 {
			return "N/A"
		}
		return fmt.Sprintf("%.2f", s)
	},
	"reviewDate": func(unix int64) string {
		return time.Unix(unix, 0).UTC().Format("2006-01-02")
	},
}

var pages = map[string]*template.Template{}

func init() {
	for _, page := range []string{"home", "detail", "login", "signup", "mypage"} {
		pages[page] = template.Must(
			template.New("layout.tmpl").Funcs(funcMap).ParseFS(files, "layout.tmpl", page+".tmpl"),
		)
	}
}

// Render writes the named page with the provided view model.
func Render(w io.Writer, page string, data any) error {
	tmpl, ok := pages[page]
	if !ok {
		return fmt.Errorf("templates: unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout.tmpl", data)
}
