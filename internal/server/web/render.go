package web

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// displayLayout is how date/times are shown on the pages.
const displayLayout = "02/01/2006 15:04"

// mdRenderer renders notes and motives. Raw HTML in the source is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type choiceList struct {
	Profiles []*models.Profile
	Selected string
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func funcMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"renderMarkdown": renderMarkdown,
		"localTime": func(t time.Time) string {
			return t.In(loc).Format(displayLayout)
		},
		"hours": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"choices": func(profiles []*models.Profile, selected string) choiceList {
			return choiceList{Profiles: profiles, Selected: selected}
		},
	}
}

func parseTemplates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(funcMap(loc)).ParseFS(templateFS, "templates/*.html")
}
