package item

import (
	"go/ast"
	"io"
	"strings"
)

// AttrKind distinguishes documentation from tool directives.
type AttrKind uint8

const (
	// Doc is documentation text. It may span several lines.
	Doc AttrKind = iota
	// Directive is a `//name:args` comment, stored without the slashes.
	Directive
)

// Attribute is one entry of a declaration's comment block.
type Attribute struct {
	Kind AttrKind
	Text string
}

// DocAttr returns a documentation attribute.
func DocAttr(text string) Attribute {
	return Attribute{Kind: Doc, Text: text}
}

// DirectiveAttr returns a directive attribute; text is "name:args".
func DirectiveAttr(text string) Attribute {
	return Attribute{Kind: Directive, Text: text}
}

// IsDirective reports whether a raw comment is a directive in the sense of
// the Go doc comment syntax: `//` immediately followed by name:args.
func IsDirective(c string) bool {
	if !strings.HasPrefix(c, "//") {
		return false
	}
	c = c[2:]
	if strings.HasPrefix(c, "line ") || strings.HasPrefix(c, "extern ") || strings.HasPrefix(c, "export ") {
		return true
	}
	colon := strings.Index(c, ":")
	if colon <= 0 || colon+1 >= len(c) {
		return false
	}
	for i := 0; i <= colon+1; i++ {
		if i == colon {
			continue
		}
		b := c[i]
		if !('a' <= b && b <= 'z' || '0' <= b && b <= '9') {
			return false
		}
	}
	return true
}

// AttributesFromComments converts a doc comment into attributes: one Doc
// attribute per line and one Directive attribute per directive.
func AttributesFromComments(doc *ast.CommentGroup) []Attribute {
	if doc == nil {
		return nil
	}
	attrs := make([]Attribute, 0, len(doc.List))
	for _, c := range doc.List {
		text := c.Text
		switch {
		case IsDirective(text):
			attrs = append(attrs, DirectiveAttr(text[2:]))
		case strings.HasPrefix(text, "//"):
			attrs = append(attrs, DocAttr(strings.TrimPrefix(text[2:], " ")))
		default:
			body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
			for _, line := range strings.Split(strings.Trim(body, "\n"), "\n") {
				attrs = append(attrs, DocAttr(strings.TrimSpace(line)))
			}
		}
	}
	return attrs
}

// writeAttributes prints documentation lines first and directives last,
// which is where gofmt keeps them.
func writeAttributes(w io.Writer, attrs []Attribute) error {
	var b strings.Builder
	for _, a := range attrs {
		if a.Kind != Doc {
			continue
		}
		for _, line := range strings.Split(a.Text, "\n") {
			if line == "" {
				b.WriteString("//\n")
				continue
			}
			b.WriteString("// ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	for _, a := range attrs {
		if a.Kind == Directive {
			b.WriteString("//")
			b.WriteString(a.Text)
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
