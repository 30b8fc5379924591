package markdown

// NodeKind tags the variant an AstNode carries. goldmark's
// own ast.NodeKind values are mapped into this closed set so the rest of the
// engine never imports goldmark directly.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindCodeBlockFenced
	KindCodeBlockIndented
	KindTable
	KindBlockquote
	KindThematicBreak
	KindHTML
	KindFrontmatter
	KindText
	KindInlineCode
	KindEmphasis
	KindStrong
	KindLink
	KindImage
	KindOther
)

// Span is a half-open [Start, End) range. Every node carries one in byte
// coordinates and one in UTF-16 code units.
type Span struct {
	Start int
	End   int
}

// AstNode is the tagged-variant tree produced by Parse. Sibling spans are
// disjoint and ordered; a parent's ByteSpan covers every child's ByteSpan.
type AstNode struct {
	Kind     NodeKind
	Level    int // heading level 1..6; 0 for non-heading kinds
	ByteSpan Span
	UTF16    Span
	Children []*AstNode

	// Raw holds the node's literal source text for leaf kinds where the
	// caller needs it verbatim (Text, HTML blocks, Frontmatter, CodeBlock).
	// Empty for container kinds and for InlineCode, whose text is held by
	// its Text children.
	Raw []byte
}

// Walk visits n and every descendant in document order, depth first.
func (n *AstNode) Walk(visit func(*AstNode) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// ContainsKind reports whether n or any descendant has the given kind.
func (n *AstNode) ContainsKind(k NodeKind) bool {
	found := false
	n.Walk(func(c *AstNode) bool {
		if found {
			return false
		}
		if c.Kind == k {
			found = true
			return false
		}
		return true
	})
	return found
}

// PlainText concatenates the Raw text of every Text and InlineCode
// descendant, in document order, giving the rendered-to-plaintext form of an
// inline span. Used to extract heading titles.
func (n *AstNode) PlainText() string {
	var buf []byte
	n.Walk(func(c *AstNode) bool {
		switch c.Kind {
		case KindText, KindInlineCode:
			buf = append(buf, c.Raw...)
		}
		return true
	})
	return string(buf)
}
