package admin

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed *.html
var templateFS embed.FS

var templates = template.Must(template.New("admin").ParseFS(templateFS, "*.html"))

func LoginPage(data LoginData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("login"), data)
}

func Dashboard(data DashboardData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("dashboard"), data)
}
