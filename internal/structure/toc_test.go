package structure

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTrimmedTreeMatchesExpectedShape(t *testing.T) {
	idx := analyzeString(t, "# A\n## B\nx\n## C\ny\n")
	got := TrimmedTree(idx)

	want := []*TrimmedToCNode{
		{
			SID: "/a", DisplayId: "1", Title: "A", Level: 1,
			Children: []*TrimmedToCNode{
				{SID: "/a/b", ParentSID: "/a", DisplayId: "1.1", Title: "B", Level: 2},
				{SID: "/a/c", ParentSID: "/a", DisplayId: "1.2", Title: "C", Level: 2},
			},
		},
	}

	diff := cmp.Diff(want, got, cmpopts.IgnoreFields(TrimmedToCNode{}, "CharacterCount"))
	if diff != "" {
		t.Errorf("TrimmedTree mismatch (-want +got):\n%s", diff)
	}
	if got[0].CharacterCount <= got[0].Children[0].CharacterCount {
		t.Errorf("parent CharacterCount %d should exceed child CharacterCount %d",
			got[0].CharacterCount, got[0].Children[0].CharacterCount)
	}
}

func TestFullTreePropagatesContentFlags(t *testing.T) {
	idx := analyzeString(t, "# A\n## B\n```go\ncode\n```\n")
	got := FullTree(idx)

	if len(got) != 1 {
		t.Fatalf("expected 1 root, got %d", len(got))
	}
	if !got[0].ContainsCode {
		t.Errorf("root ContainsCode = false, want true")
	}
	if !got[0].Children[0].ContainsCode {
		t.Errorf("child ContainsCode = false, want true")
	}
}
