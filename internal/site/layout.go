package site

import (
	"html/template"
	"io"
)

const defaultLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="generator" content="sitepack" data-build-id="{{ .BuildID }}">
<title>{{ if .Title }}{{ .Title }} | {{ end }}{{ .SiteTitle }}</title>
{{- range .Styles }}
<link rel="stylesheet" href="{{ . }}">
{{- end }}
</head>
<body>
<main>
{{ .Content }}
</main>
{{- range .Scripts }}
<script src="{{ . }}"></script>
{{- end }}
</body>
</html>
`

// pageData is the value the layout is executed with.
type pageData struct {
	Title     string
	SiteTitle string
	BuildID   string
	Content   template.HTML
	Styles    []string
	Scripts   []string
}

var layout = template.Must(template.New("page").Parse(defaultLayout))

func renderLayout(w io.Writer, data pageData) error {
	return layout.Execute(w, data)
}
