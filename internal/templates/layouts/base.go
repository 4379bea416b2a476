package layouts

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed base.html
var baseFS embed.FS

var baseTmpl = template.Must(template.ParseFS(baseFS, "base.html"))

type PageData struct {
	Title    string
	SiteName string
	Admin    bool
}

// Base wraps content in the document shell.
func Base(page PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := baseTmpl.ExecuteTemplate(w, "head", page); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		return baseTmpl.ExecuteTemplate(w, "foot", page)
	})
}
