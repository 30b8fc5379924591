package markdown

import "testing"

func TestParseHeadingsAndParagraphs(t *testing.T) {
	src := []byte("# Title\n\nSome text.\n\n## Sub\n\nMore text.\n")
	_, root, warnings, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	var headings []*AstNode
	root.Walk(func(n *AstNode) bool {
		if n.Kind == KindHeading {
			headings = append(headings, n)
		}
		return true
	})
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	if headings[0].Level != 1 || headings[0].PlainText() != "Title" {
		t.Errorf("heading 0 = level %d text %q", headings[0].Level, headings[0].PlainText())
	}
	if headings[1].Level != 2 || headings[1].PlainText() != "Sub" {
		t.Errorf("heading 1 = level %d text %q", headings[1].Level, headings[1].PlainText())
	}
}

func TestParseFrontmatter(t *testing.T) {
	src := []byte("---\ntitle: Doc\n---\n\n# Heading\n")
	_, root, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(root.Children) == 0 || root.Children[0].Kind != KindFrontmatter {
		t.Fatalf("expected first child to be frontmatter, got %+v", root.Children)
	}
	found := false
	root.Walk(func(n *AstNode) bool {
		if n.Kind == KindHeading {
			found = true
		}
		return true
	})
	if !found {
		t.Fatalf("expected a heading after frontmatter")
	}
}

func TestParseCodeBlockAndTable(t *testing.T) {
	src := []byte("# T\n\n```go\nfmt.Println(1)\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	_, root, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !root.ContainsKind(KindCodeBlockFenced) {
		t.Errorf("expected a fenced code block")
	}
	if !root.ContainsKind(KindTable) {
		t.Errorf("expected a table")
	}
}

func TestParseInvalidUTF8ReplacedNotRejected(t *testing.T) {
	src := []byte("# Title\n\nBad: \xff\xfe byte\n")
	_, _, warnings, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error for invalid UTF-8, want degrade-and-warn: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a warning about replaced UTF-8")
	}
}

func TestAstNodeSpansAreOrderedAndContained(t *testing.T) {
	src := []byte("# Title\n\nSome text.\n")
	_, root, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, child := range root.Children {
		if child.ByteSpan.Start < root.ByteSpan.Start || child.ByteSpan.End > root.ByteSpan.End {
			t.Errorf("child span %+v escapes root span %+v", child.ByteSpan, root.ByteSpan)
		}
	}
}
