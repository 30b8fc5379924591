package edit

import (
	"strings"
	"testing"

	"structdoc/internal/markdown"
	"structdoc/internal/structure"
)

func parseAndAnalyze(t *testing.T, src string) (*markdown.Document, *structure.Index) {
	t.Helper()
	doc, root, _, err := markdown.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc, structure.Analyze(doc, root)
}

// Replacing a subsection body only leaves siblings untouched.
func TestScenarioReplaceSectionContentOnly(t *testing.T) {
	src := "# A\n## B\nx\n## C\ny\n"
	doc, idx := parseAndAnalyze(t, src)

	intents := []Intent{{
		Type: ReplaceSectionContentOnly,
		Target: Target{
			SID:       "/a/b",
			LineRange: &LineRange{StartLine: 3, EndLine: 3},
		},
		Content: "X",
	}}

	ops, failed, bf := Plan(intents, idx, doc, 0.5)
	if bf != nil {
		t.Fatalf("unexpected batch failure: %+v", bf)
	}
	if len(failed) != 0 {
		t.Fatalf("unexpected intent failures: %+v", failed)
	}
	result := Apply(doc.Bytes, ops)
	want := "# A\n## B\nX\n## C\ny\n"
	if string(result) != want {
		t.Errorf("got:\n%s\nwant:\n%s", result, want)
	}

	newDoc, newIdx := parseAndAnalyze(t, string(result))
	_ = newDoc
	if newIdx.Lookup("/a/c") == nil {
		t.Errorf("expected /a/c to survive unchanged")
	}
}

// Inserting a sibling section lands between the anchor's body and the
// next heading.
func TestScenarioInsertSectionAndTitleAfter(t *testing.T) {
	src := "# A\n## B\nx\n## C\ny\n"
	doc, idx := parseAndAnalyze(t, src)

	intents := []Intent{{
		Type: InsertSectionAndTitle,
		Target: Target{
			SID:               "/a/b",
			InsertionPosition: PositionAfter,
		},
		Content: "## B2\nz\n",
	}}

	ops, failed, bf := Plan(intents, idx, doc, 0.5)
	if bf != nil || len(failed) != 0 {
		t.Fatalf("unexpected failure: bf=%+v failed=%+v", bf, failed)
	}
	result := Apply(doc.Bytes, ops)
	want := "# A\n## B\nx\n## B2\nz\n## C\ny\n"
	if string(result) != want {
		t.Errorf("got:\n%s\nwant:\n%s", result, want)
	}

	_, newIdx := parseAndAnalyze(t, string(result))
	for _, sid := range []string{"/a", "/a/b", "/a/c", "/a/b2"} {
		if newIdx.Lookup(sid) == nil {
			t.Errorf("expected SID %q to exist after insertion", sid)
		}
	}
}

// A delete and a modify on the same SID reject the whole batch.
func TestScenarioDeleteThenModifySameSIDRejectsBatch(t *testing.T) {
	src := "# One\ntext one\n# Two\ntext two\n# Three\ntext three\n"
	_, idx := parseAndAnalyze(t, src)
	_ = idx

	intents := []Intent{
		{Type: DeleteSectionAndTitle, Target: Target{SID: "/two"}},
		{Type: ReplaceSectionAndTitle, Target: Target{SID: "/two"}, Content: "# Two\nnew\n"},
	}
	rejection := ValidateBatchSemantics(intents)
	if rejection == nil || rejection.Rule != ErrDeleteThenModifySameSID {
		t.Fatalf("expected DELETE_THEN_MODIFY_SAME_SID rejection, got %+v", rejection)
	}
	if rejection.SID != "/two" {
		t.Errorf("rejection SID = %q, want /two", rejection.SID)
	}
}

// Two delete-section-and-title intents on the same SID do not error at
// validation; at most one resolves during planning.
func TestIdempotentDeletesOnSameSID(t *testing.T) {
	src := "# A\ntext\n# B\nmore\n"
	doc, idx := parseAndAnalyze(t, src)

	intents := []Intent{
		{Type: DeleteSectionAndTitle, Target: Target{SID: "/a"}},
		{Type: DeleteSectionAndTitle, Target: Target{SID: "/a"}},
	}
	if rej := ValidateBatchSemantics(intents); rej != nil {
		t.Fatalf("two deletes on the same SID should not fail validation, got %+v", rej)
	}

	ops, failed, bf := Plan(intents, idx, doc, 0.5)
	if bf != nil {
		t.Fatalf("unexpected batch failure: %+v", bf)
	}
	if len(ops) != 1 {
		t.Fatalf("expected exactly one operation to succeed, got %d", len(ops))
	}
	if len(failed) != 1 || failed[0].ErrorKind != ErrSectionNotFound {
		t.Fatalf("expected the second delete to fail with SECTION_NOT_FOUND, got %+v", failed)
	}
}

// Any accepted batch's operations are pairwise disjoint and sorted
// ascending.
func TestPlanIsDisjointAndSorted(t *testing.T) {
	src := "# A\nx\n# B\ny\n# C\nz\n"
	doc, idx := parseAndAnalyze(t, src)

	intents := []Intent{
		{Type: ReplaceSectionContentOnly, Target: Target{SID: "/c"}, Content: "Z"},
		{Type: ReplaceSectionContentOnly, Target: Target{SID: "/a"}, Content: "X"},
	}
	ops, failed, bf := Plan(intents, idx, doc, 0.5)
	if bf != nil || len(failed) != 0 {
		t.Fatalf("unexpected failure: bf=%+v failed=%+v", bf, failed)
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1].ByteEnd > ops[i].ByteStart {
			t.Fatalf("operations not disjoint: %+v then %+v", ops[i-1], ops[i])
		}
		if ops[i-1].ByteStart > ops[i].ByteStart {
			t.Fatalf("operations not sorted ascending")
		}
	}
}

// Applying twice with the same replacement is idempotent once normalized.
func TestNewlineInvarianceIsIdempotent(t *testing.T) {
	first := normalize("replacement text")
	second := normalize(first)
	if first != second {
		t.Fatalf("normalize is not idempotent: %q then %q", first, second)
	}
	if normalize("") != "" {
		t.Fatalf("normalize must never add a newline to an empty replacement")
	}
}

// Atomic failure surfaces via the facade layer; here we confirm the
// applier itself performs exactly the linear walk with no partial writes
// when given an empty op list.
func TestApplyWithNoOperationsReturnsSourceUnchanged(t *testing.T) {
	src := []byte("unchanged\ndocument\n")
	out := Apply(src, nil)
	if string(out) != string(src) {
		t.Fatalf("expected unchanged output, got %q", out)
	}
}

func TestOverlappingEditsFailBatch(t *testing.T) {
	src := "# A\nsome shared text here\n"
	doc, idx := parseAndAnalyze(t, src)

	intents := []Intent{
		{Type: ReplaceSectionAndTitle, Target: Target{SID: "/a"}, Content: "# A\nnew\n"},
		{Type: ReplaceSectionContentOnly, Target: Target{SID: "/a"}, Content: "also new"},
	}
	_, _, bf := Plan(intents, idx, doc, 0.5)
	if bf == nil || bf.Rule != ErrOverlappingEdits {
		t.Fatalf("expected OVERLAPPING_EDITS batch failure, got %+v", bf)
	}
}

func TestSectionNotFoundCarriesClosestSIDHint(t *testing.T) {
	src := "# Intro\ntext\n"
	doc, idx := parseAndAnalyze(t, src)

	intents := []Intent{{Type: ReplaceSectionAndTitle, Target: Target{SID: "/intr0"}, Content: "# Intro\nx\n"}}
	_, failed, bf := Plan(intents, idx, doc, 0.5)
	if bf != nil {
		t.Fatalf("unexpected batch failure: %+v", bf)
	}
	if len(failed) != 1 || failed[0].ErrorKind != ErrSectionNotFound {
		t.Fatalf("expected SECTION_NOT_FOUND, got %+v", failed)
	}
	if !strings.Contains(failed[0].Suggestion, `"/intro"`) {
		t.Errorf("expected a suggestion naming the closest SID /intro, got %q", failed[0].Suggestion)
	}
}
