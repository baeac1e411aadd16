package template

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed page.html.tmpl
var pageTemplate string

// TOCEntry is one link of the page table of contents.
type TOCEntry struct {
	ID   string
	Text string
}

// Page is the data rendered into the HTML report page.
type Page struct {
	Title string
	TOC   []TOCEntry
	Body  template.HTML // trusted output of the Markdown renderer
}

// add adds two integers and returns the result.
// helper function for html template
func add(a, b int) int {
	return a + b
}

// NewTemplate parses the embedded report page.
func NewTemplate() (*template.Template, error) {
	return template.New("page.html").
		Funcs(template.FuncMap{
			"add": add,
		}).
		Parse(pageTemplate)
}

// RenderPage writes page to w using the embedded template.
func RenderPage(w io.Writer, page Page) error {
	tmpl, err := NewTemplate()
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}
	if err := tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
