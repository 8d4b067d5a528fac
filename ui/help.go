package ui

import (
	"html/template"
	"io/fs"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
)

// loadHelp renders the Markdown instructions shown above the upload form
func loadHelp(files fs.FS, name string) (template.HTML, error) {
	source, err := fs.ReadFile(files, name)
	if err != nil {
		return "", err
	}
	return renderMarkdown(source), nil
}

func renderMarkdown(source []byte) template.HTML {
	unsafe := markdown.ToHTML(source, nil, nil)
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(unsafe))
}
