package structure

import (
	"strings"

	"structdoc/internal/markdown"
)

// classify scans the full AST once and, for every content-bearing node,
// attributes classification flags and word counts to every section whose
// body range contains it (a section's body spans all descendant sections,
// so flags and counts bubble up the tree naturally).
func classify(doc *markdown.Document, root *markdown.AstNode, idx *Index) {
	flat := flatten(idx)

	root.Walk(func(n *markdown.AstNode) bool {
		switch n.Kind {
		case markdown.KindCodeBlockFenced, markdown.KindCodeBlockIndented:
			applyToContaining(flat, n.ByteSpan.Start, func(s *Section) {
				s.ContainsCode = true
				s.WordCount++ // code blocks contribute one whole-block token
			})
			return false // don't descend into raw code text as prose
		case markdown.KindTable:
			applyToContaining(flat, n.ByteSpan.Start, func(s *Section) {
				s.ContainsTables = true
			})
		case markdown.KindList:
			applyToContaining(flat, n.ByteSpan.Start, func(s *Section) {
				s.ContainsLists = true
			})
		case markdown.KindText, markdown.KindInlineCode:
			words := len(strings.Fields(string(n.Raw)))
			if words > 0 {
				applyToContaining(flat, n.ByteSpan.Start, func(s *Section) {
					s.WordCount += words
				})
			}
		}
		return true
	})

	u16 := doc.UTF16()
	for _, s := range flat {
		s.CharacterCount = u16.ByteToUTF16(s.BodyEnd) - u16.ByteToUTF16(s.BodyStart)
	}
}

func flatten(idx *Index) []*Section {
	var out []*Section
	var walk func([]*Section)
	walk = func(secs []*Section) {
		for _, s := range secs {
			out = append(out, s)
			walk(s.Children)
		}
	}
	walk(idx.Roots)
	return out
}

func applyToContaining(flat []*Section, byteOffset int, apply func(*Section)) {
	for _, s := range flat {
		if byteOffset >= s.BodyStart && byteOffset < s.BodyEnd {
			apply(s)
		}
	}
}
