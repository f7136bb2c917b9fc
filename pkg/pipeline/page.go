package pipeline

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

//nolint:gochecknoglobals // parsed once
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
</head>
<body>
{{ .Body }}</body>
</html>
`))

// Title returns the page title of a rendered document: the front matter
// "title" value when it is a non-empty string, else the base name of path
// without its extension.
func Title(meta map[string]any, path string) string {
	if title, ok := meta["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WrapPage wraps rendered body markup in a minimal HTML5 page.
func WrapPage(title, body string) (string, error) {
	var b strings.Builder
	err := pageTemplate.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body), //nolint:gosec // body is rendered markup
	})
	if err != nil {
		return "", fmt.Errorf("page template: %w", err)
	}
	return b.String(), nil
}
