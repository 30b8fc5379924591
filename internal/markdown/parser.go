package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	gmext "github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Warning is a non-fatal parse diagnostic. Parsing never aborts, it
// degrades and reports.
type Warning struct {
	Message string
}

var md = goldmark.New(goldmark.WithExtensions(gmext.GFM))

// Parse turns raw document bytes into a Document and its AstNode tree,
// recognizing CommonMark, GFM tables/tasklists/strikethrough/autolinks, and
// a leading YAML frontmatter block. Invalid UTF-8 is replaced
// with U+FFFD rather than rejected.
func Parse(raw []byte) (*Document, *AstNode, []Warning, error) {
	var warnings []Warning
	cleaned, replaced := ValidateUTF8(raw)
	if replaced {
		warnings = append(warnings, Warning{Message: "invalid UTF-8 sequences replaced with U+FFFD"})
	}

	doc := NewDocument(cleaned)
	source := doc.Bytes

	var root []*AstNode
	body := source
	if fm, rest, ok := splitFrontmatter(source); ok {
		root = append(root, fm)
		body = rest
	}

	gdoc := md.Parser().Parse(text.NewReader(body))
	bodyOffset := len(source) - len(body)

	children := convertChildren(gdoc, body, bodyOffset)
	root = append(root, children...)

	rootNode := &AstNode{
		Kind:     KindRoot,
		ByteSpan: Span{Start: 0, End: len(source)},
		Children: root,
	}
	rootNode.Walk(func(n *AstNode) bool {
		n.UTF16 = Span{
			Start: doc.UTF16().ByteToUTF16(n.ByteSpan.Start),
			End:   doc.UTF16().ByteToUTF16(n.ByteSpan.End),
		}
		return true
	})
	return doc, rootNode, warnings, nil
}

// splitFrontmatter recognizes a leading "---\n...\n---\n" block and returns
// it as a Frontmatter node plus the remaining source. goldmark has no
// native frontmatter node, so this is a pre-scan over raw bytes.
func splitFrontmatter(source []byte) (*AstNode, []byte, bool) {
	const delim = "---"
	if !bytes.HasPrefix(source, []byte(delim)) {
		return nil, source, false
	}
	rest := source[len(delim):]
	if len(rest) == 0 || (rest[0] != '\n' && rest[0] != '\r') {
		return nil, source, false
	}
	// Skip past the opening delimiter's own line.
	nlIdx := bytes.IndexByte(source, '\n')
	if nlIdx < 0 {
		return nil, source, false
	}
	closeIdx := indexClosingDelim(source, nlIdx+1, delim)
	if closeIdx < 0 {
		return nil, source, false
	}
	end := closeIdx
	node := &AstNode{
		Kind:     KindFrontmatter,
		ByteSpan: Span{Start: 0, End: end},
		Raw:      source[0:end],
	}
	return node, source[end:], true
}

// indexClosingDelim finds the byte offset just past a line consisting only
// of "---" (and its trailing newline), starting the search at `from`.
func indexClosingDelim(source []byte, from int, delim string) int {
	for from < len(source) {
		nl := bytes.IndexByte(source[from:], '\n')
		var line []byte
		var lineEnd int
		if nl < 0 {
			line = source[from:]
			lineEnd = len(source)
		} else {
			line = source[from : from+nl]
			lineEnd = from + nl + 1
		}
		if string(bytes.TrimRight(line, "\r")) == delim {
			return lineEnd
		}
		if nl < 0 {
			return -1
		}
		from = lineEnd
	}
	return -1
}

func convertChildren(parent gast.Node, source []byte, offset int) []*AstNode {
	var out []*AstNode
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if n := convertNode(c, source, offset); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func convertNode(n gast.Node, source []byte, offset int) *AstNode {
	span := nodeSpan(n, source, offset)
	switch v := n.(type) {
	case *gast.Heading:
		// goldmark's heading segment covers only the title text; widen it to
		// the whole marker line including its trailing newline, so section
		// spans derived from it start at the "#" and bodies start on the next
		// line.
		return &AstNode{
			Kind:     KindHeading,
			Level:    v.Level,
			ByteSpan: lineExtendedSpan(span, source, offset),
			Children: convertChildren(n, source, offset),
		}
	case *gast.Paragraph:
		return &AstNode{Kind: KindParagraph, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.TextBlock:
		return &AstNode{Kind: KindParagraph, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.List:
		return &AstNode{Kind: KindList, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.ListItem:
		return &AstNode{Kind: KindListItem, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.CodeBlock:
		return &AstNode{Kind: KindCodeBlockIndented, ByteSpan: span, Raw: blockLiteral(v, source)}
	case *gast.FencedCodeBlock:
		return &AstNode{Kind: KindCodeBlockFenced, ByteSpan: span, Raw: blockLiteral(v, source)}
	case *gast.Blockquote:
		return &AstNode{Kind: KindBlockquote, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.ThematicBreak:
		return &AstNode{Kind: KindThematicBreak, ByteSpan: span}
	case *gast.HTMLBlock:
		return &AstNode{Kind: KindHTML, ByteSpan: span, Raw: htmlBlockLiteral(v, source)}
	case *gast.RawHTML:
		return &AstNode{Kind: KindHTML, ByteSpan: span}
	case *gast.Text:
		seg := v.Segment
		return &AstNode{
			Kind:     KindText,
			ByteSpan: Span{Start: seg.Start + offset, End: seg.Stop + offset},
			Raw:      seg.Value(source),
		}
	case *gast.String:
		return &AstNode{Kind: KindText, ByteSpan: span, Raw: v.Value}
	case *gast.CodeSpan:
		return &AstNode{Kind: KindInlineCode, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.Emphasis:
		return &AstNode{Kind: KindEmphasis, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.Link:
		return &AstNode{Kind: KindLink, ByteSpan: span, Children: convertChildren(n, source, offset)}
	case *gast.AutoLink:
		return &AstNode{Kind: KindLink, ByteSpan: span}
	case *gast.Image:
		return &AstNode{Kind: KindImage, ByteSpan: span, Children: convertChildren(n, source, offset)}
	default:
		switch n.Kind() {
		case extast.KindTable:
			return &AstNode{Kind: KindTable, ByteSpan: span, Children: convertChildren(n, source, offset)}
		case extast.KindStrikethrough:
			return &AstNode{Kind: KindEmphasis, ByteSpan: span, Children: convertChildren(n, source, offset)}
		}
		if n.Type() == gast.TypeBlock {
			return &AstNode{Kind: KindOther, ByteSpan: span, Children: convertChildren(n, source, offset)}
		}
		return &AstNode{Kind: KindOther, ByteSpan: span, Children: convertChildren(n, source, offset)}
	}
}

// lineExtendedSpan widens a span to the full source lines it touches: start
// moves back to the beginning of its line, end moves forward past the line's
// trailing newline (or to EOF).
func lineExtendedSpan(span Span, source []byte, offset int) Span {
	s := span.Start - offset
	e := span.End - offset
	for s > 0 && source[s-1] != '\n' {
		s--
	}
	for e < len(source) && source[e] != '\n' {
		e++
	}
	if e < len(source) {
		e++
	}
	return Span{Start: s + offset, End: e + offset}
}

// nodeSpan derives a node's byte span from its line segments when it is a
// block node, or from the min/max of its converted children otherwise.
// goldmark exposes segments in document-relative offsets, so every result
// is shifted by offset to land in whole-file coordinates.
func nodeSpan(n gast.Node, source []byte, offset int) Span {
	if lines := blockLines(n); lines != nil && lines.Len() > 0 {
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		return Span{Start: first.Start + offset, End: last.Stop + offset}
	}
	if n.FirstChild() == nil {
		return Span{Start: offset, End: offset}
	}
	start := -1
	end := -1
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		s := nodeSpan(c, source, offset)
		if start == -1 || s.Start < start {
			start = s.Start
		}
		if s.End > end {
			end = s.End
		}
	}
	return Span{Start: start, End: end}
}

func blockLines(n gast.Node) *text.Segments {
	type liner interface {
		Lines() *text.Segments
	}
	// goldmark's inline nodes implement Lines() but panic when it is called.
	if n.Type() != gast.TypeBlock {
		return nil
	}
	if l, ok := n.(liner); ok {
		return l.Lines()
	}
	return nil
}

func blockLiteral(n interface {
	Lines() *text.Segments
}, source []byte) []byte {
	lines := n.Lines()
	var buf []byte
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf = append(buf, seg.Value(source)...)
	}
	return buf
}

func htmlBlockLiteral(v *gast.HTMLBlock, source []byte) []byte {
	var buf []byte
	lines := v.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf = append(buf, seg.Value(source)...)
	}
	if v.HasClosure() {
		buf = append(buf, v.ClosureLine.Value(source)...)
	}
	return buf
}
