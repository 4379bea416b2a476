package site

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed *.html
var templateFS embed.FS

var templates = template.Must(template.New("site").ParseFS(templateFS, "*.html"))

func Home(data HomeData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("home"), data)
}

// Calendar is the month grid plus the stay summary; it is also the htmx
// swap target for picks and month navigation.
func Calendar(data CalendarData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("calendar"), data)
}

func InquiryResult(data InquiryResultData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("inquiry_result"), data)
}
