package html

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

type Paragraph struct {
	Lines []string
}

type Document struct {
	Paragraphs []Paragraph
	ImageURL   string
	TextURL    string
}

var tmplString = `<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8">
		<style>
			p {
				max-width: 40em;
			}
		</style>
	</head>
	<body>{{range .Paragraphs}}
		<p>{{range $i, $line := .Lines}}{{if $i}}<br />{{end}}{{$line}}{{end}}</p>{{end}}{{if .TextURL}}
		<a href="{{.TextURL}}">Download text.</a>{{end}}{{if .ImageURL}}
		<br />
		<img src="{{.ImageURL}}">{{end}}
	</body>
</html>
`

var tmpl = template.Must(template.New("text").Parse(tmplString))

// Split breaks extracted text into paragraphs on blank lines.
func Split(text string) []Paragraph {
	paragraphs := make([]Paragraph, 0)
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		paragraphs = append(paragraphs, Paragraph{Lines: strings.Split(block, "\n")})
	}
	return paragraphs
}

// FromText renders extracted text as an HTML page. Empty URLs are left out.
func FromText(text string, imageURL string, textURL string) (string, error) {
	doc := Document{
		Paragraphs: Split(text),
		ImageURL:   imageURL,
		TextURL:    textURL,
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
