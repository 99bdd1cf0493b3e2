package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"go.uber.org/zap"

	"github.com/gndm/ytPlaylists/internal/extract"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>YouTube Channel Playlists</title>
  <style>
    body { font-family: sans-serif; margin: 2em auto; max-width: 60em; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border-bottom: 1px solid #ddd; padding: 0.4em; text-align: left; }
    td.count { text-align: right; }
  </style>
</head>
<body>
  <h1>YouTube Channel Playlists</h1>
  <p>Fetched on {{ .Generated }}</p>
  <table>
    <thead>
      <tr><th>#</th><th>Title</th><th>ID</th><th>Videos</th><th>Uploader</th></tr>
    </thead>
    <tbody>
      {{- range $i, $r := .Records }}
      <tr>
        <td>{{ inc $i }}</td>
        <td><a href="{{ $r.URL }}">{{ $r.Title }}</a></td>
        <td>{{ $r.ID }}</td>
        <td class="count">{{ $r.VideoCount }}</td>
        <td>{{ $r.Uploader }}</td>
      </tr>
      {{- end }}
    </tbody>
  </table>
  <h2>Direct Links Only</h2>
  <pre>
{{- range .Records }}
{{ .URL }}
{{- end }}</pre>
</body>
</html>
`))

// newMinifier handles the report page and its inline stylesheet.
func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{KeepDocumentTags: true, KeepEndTags: true})
	return m
}

func (w *Writer) renderHTML(records []extract.Record, generated time.Time) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Generated string
		Records   []extract.Record
	}{generated.Format(TimestampLayout), records}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}

	minified, err := newMinifier().Bytes("text/html", buf.Bytes())
	if err != nil {
		w.logger.Warn("failed to minify html report, using original", zap.Error(err))
		return buf.Bytes(), nil
	}
	w.logger.Debug("minified html report",
		zap.Int("original", buf.Len()),
		zap.Int("minified", len(minified)))
	return minified, nil
}
