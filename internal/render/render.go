// Package render produces the static digest page and publishes it.
package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bubbles39/AINews/internal/news"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 860px; margin: 0 auto; padding: 1rem; color: #222; }
article { border-bottom: 1px solid #ddd; padding: 1rem 0; }
h2 { margin: 0 0 .25rem; font-size: 1.1rem; }
h2 a { color: #1a4f8b; text-decoration: none; }
.original { color: #666; font-size: .85rem; margin: 0 0 .5rem; }
.meta { color: #888; font-size: .8rem; margin-top: .5rem; }
footer { color: #888; font-size: .8rem; margin-top: 1.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Items}}<article>
<h2><a href="{{.Link}}">{{.TitleTranslated}}</a></h2>
{{if ne .TitleTranslated .Title}}<p class="original">{{.Title}}</p>{{end}}
<p>{{.SummaryTranslated}}</p>
<p class="meta">{{joinSources .Sources .Source}} &middot; {{fmtTime .Published}}</p>
</article>
{{else}}<p>No fresh items this run.</p>
{{end}}<footer>Updated {{fmtTime .UpdatedAt}} &middot; {{len .Items}} items</footer>
</body>
</html>
`

var tmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
	"joinSources": func(sources []string, fallback string) string {
		if len(sources) == 0 {
			return fallback
		}
		return strings.Join(sources, ", ")
	},
}).Parse(pageTemplate))

// Page is everything the template needs.
type Page struct {
	Title     string
	Locale    string
	Items     []news.Item
	UpdatedAt time.Time
}

// Render writes the digest HTML for the given items.
func Render(w io.Writer, page Page) error {
	if err := tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}
	return nil
}

// Publish renders to a temp file next to the target and renames it into
// place, so readers never see a half-written page and a failed run leaves
// the previous digest untouched.
func Publish(path string, page Page) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".digest-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Render(tmp, page); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to publish digest: %w", err)
	}
	return nil
}
