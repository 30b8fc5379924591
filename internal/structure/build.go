package structure

import (
	"strings"

	"structdoc/internal/markdown"
	"structdoc/internal/slug"
)

type headingRef struct {
	level int
	start int
	end   int
	title string
}

// Analyze walks the AST once, builds the section tree with SIDs and
// display numbers, and classifies each section's body content.
func Analyze(doc *markdown.Document, root *markdown.AstNode) *Index {
	headings := collectHeadings(root)

	docRoot := &Section{SID: "/", ParentSID: "", Level: 0, BodyStart: 0}
	stack := []*Section{docRoot}
	slugCounts := map[*Section]map[string]int{docRoot: {}}

	for _, h := range headings {
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.level {
			popped := stack[len(stack)-1]
			popped.BodyEnd = h.start
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		s := newSection(parent, slugCounts, h)
		parent.Children = append(parent.Children, s)
		stack = append(stack, s)
		slugCounts[s] = map[string]int{}
	}

	docEnd := len(doc.Bytes)
	for _, s := range stack {
		s.BodyEnd = docEnd
	}

	assignDisplayIds(docRoot.Children, "")
	assignLineNumbers(doc, docRoot)

	idx := &Index{bySID: map[string]*Section{}}
	if len(docRoot.Children) > 0 {
		idx.Roots = docRoot.Children
	} else {
		idx.Roots = []*Section{docRoot}
	}
	indexAll(docRoot, idx)

	classify(doc, root, idx)
	return idx
}

func newSection(parent *Section, slugCounts map[*Section]map[string]int, h headingRef) *Section {
	base := slug.Slugify(h.title)
	counts := slugCounts[parent]
	childIndex := len(parent.Children)

	var sid string
	if counts[base] == 0 {
		sid = joinSID(parent.SID, base)
	} else {
		suffix := slug.CollisionSuffix(parent.SID, base, childIndex)
		sid = joinSID(parent.SID, base+"-"+suffix)
	}
	counts[base]++

	return &Section{
		SID:             sid,
		ParentSID:       parent.SID,
		Level:           h.level,
		Title:           h.title,
		NormalizedTitle: normalizeTitle(h.title),
		HeadingStart:    h.start,
		HeadingEnd:      h.end,
		BodyStart:       h.end,
	}
}

func joinSID(parentSID, segment string) string {
	if parentSID == "/" {
		return "/" + segment
	}
	return parentSID + "/" + segment
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

func collectHeadings(root *markdown.AstNode) []headingRef {
	var out []headingRef
	root.Walk(func(n *markdown.AstNode) bool {
		if n.Kind == markdown.KindHeading {
			out = append(out, headingRef{
				level: n.Level,
				start: n.ByteSpan.Start,
				end:   n.ByteSpan.End,
				title: n.PlainText(),
			})
		}
		return true
	})
	return out
}

func assignDisplayIds(children []*Section, prefix string) {
	for i, c := range children {
		if prefix == "" {
			c.DisplayId = itoa(i + 1)
		} else {
			c.DisplayId = prefix + "." + itoa(i+1)
		}
		assignDisplayIds(c.Children, c.DisplayId)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func assignLineNumbers(doc *markdown.Document, s *Section) {
	lines := doc.Lines()
	if s.Level > 0 {
		s.HeadingLine = lines.LineOf(s.HeadingStart)
	}
	if s.BodyEnd > 0 {
		s.BodyEndLine = lines.LineOf(s.BodyEnd - 1)
	} else {
		s.BodyEndLine = 1
	}
	for _, c := range s.Children {
		assignLineNumbers(doc, c)
	}
}

func indexAll(s *Section, idx *Index) {
	idx.bySID[s.SID] = s
	for _, c := range s.Children {
		indexAll(c, idx)
	}
}
