package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	pagetemplate "github.com/scan-io-git/teardown/internal/template"
)

// newMarkdown returns a converter for report Markdown. Raw HTML is passed through
// because the report embeds anchors and <details> blocks.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// HTML converts a Markdown report into a standalone page with a table of contents
// built from its second-level headings.
func HTML(markdown, title string) (string, error) {
	md := newMarkdown()
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	toc, err := tableOfContents(doc, source)
	if err != nil {
		return "", fmt.Errorf("failed to build table of contents: %w", err)
	}

	var body bytes.Buffer
	if err := md.Renderer().Render(&body, source, doc); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var page bytes.Buffer
	err = pagetemplate.RenderPage(&page, pagetemplate.Page{
		Title: title,
		TOC:   toc,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", err
	}
	return page.String(), nil
}

func tableOfContents(doc ast.Node, source []byte) ([]pagetemplate.TOCEntry, error) {
	var toc []pagetemplate.TOCEntry
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level == 2 {
			entry := pagetemplate.TOCEntry{Text: string(heading.Text(source))}
			if id, found := heading.AttributeString("id"); found {
				if b, ok := id.([]byte); ok {
					entry.ID = string(b)
				}
			}
			toc = append(toc, entry)
		}
		return ast.WalkSkipChildren, nil
	})
	return toc, err
}
