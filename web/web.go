// Package web holds the server-rendered pages of the shop. Templates are
// embedded so the binary carries its own views.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded page. Each page is addressed by its file
// name, e.g. "home.html"; shared fragments live in layout.html.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// FuncMap returns the helpers available to the page templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDateTime": formatDateTime,
		"shortUUID":      shortUUID,
	}
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixedBank(0)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func shortUUID(id uuid.UUID) string {
	return id.String()[:8]
}
