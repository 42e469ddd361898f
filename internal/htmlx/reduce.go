package htmlx

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags get a newline after their content so that text from adjacent
// blocks does not run together on one line.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "li": {}, "tr": {}, "blockquote": {}, "pre": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
}

// Lines reduces an HTML document to its visible text, one entry per line.
// Every <br> becomes a literal line break, block elements end their own
// line, and script/style content is dropped. The listing scanner consumes
// this output directly.
func Lines(content string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	for _, n := range doc.Selection.Nodes {
		flatten(n, &sb)
	}

	return strings.Split(sb.String(), "\n"), nil
}

func flatten(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	if n.Type == html.ElementNode && n.Data == "br" {
		sb.WriteString("\n")
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, sb)
	}

	if n.Type == html.ElementNode {
		if _, ok := blockTags[n.Data]; ok {
			sb.WriteString("\n")
		}
	}
}

// PageTitle returns the trimmed contents of the document's <title> tag, or
// "" when there is none. Used for ingest diagnostics only.
func PageTitle(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
