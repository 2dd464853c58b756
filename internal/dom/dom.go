// Package dom reads class names and inline stylesheets out of HTML content.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// StyleType is the type attribute marking a <style> element as source
// for the compiler rather than plain CSS.
const StyleType = "text/tailwindcss"

var (
	classSel = cascadia.MustCompile("[class]")
	styleSel = cascadia.MustCompile(`style[type="` + StyleType + `"]`)
)

// Document is what a scan found in one HTML document.
type Document struct {
	// Classes are the distinct class attribute tokens, entity-decoded, in
	// document order.
	Classes []string
	// Styles are the text of every inline compiler stylesheet, in order.
	Styles []string
}

// Scan parses r as HTML. The parser is lenient, so only reader failures
// produce an error.
func Scan(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return ScanNode(root), nil
}

// ScanString is Scan over a string.
func ScanString(s string) (*Document, error) {
	return Scan(strings.NewReader(s))
}

// ScanNode collects classes and inline styles below n.
func ScanNode(n *html.Node) *Document {
	doc := &Document{}
	seen := map[string]bool{}
	for _, el := range classSel.MatchAll(n) {
		for _, class := range strings.Fields(attr(el, "class")) {
			if !seen[class] {
				seen[class] = true
				doc.Classes = append(doc.Classes, class)
			}
		}
	}
	for _, el := range styleSel.MatchAll(n) {
		if text := textContent(el); strings.TrimSpace(text) != "" {
			doc.Styles = append(doc.Styles, text)
		}
	}
	return doc
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// IsHTML reports whether a content extension is scanned as HTML.
func IsHTML(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "html", "htm", "xhtml":
		return true
	}
	return false
}
