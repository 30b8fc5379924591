package match

import "testing"

func TestFindUniqueSingleOccurrence(t *testing.T) {
	body := "line one\nline two\nline three\n"
	r, diag := FindUnique(body, "line two", "", "", 0.5)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}
	if body[r.Start:r.End] != "line two" {
		t.Errorf("resolved range = %q, want %q", body[r.Start:r.End], "line two")
	}
}

func TestFindUniqueMultipleMatchesRequiresDisambiguation(t *testing.T) {
	body := "before one\n- common\nmiddle\n- common\nafter one\n"
	_, diag := FindUnique(body, "- common", "", "", 0.5)
	if diag == nil || diag.Kind != MultipleMatches {
		t.Fatalf("expected MultipleMatches diagnostic, got %+v", diag)
	}
	if len(diag.Matches) != 2 {
		t.Fatalf("expected 2 candidate matches, got %d", len(diag.Matches))
	}
	if diag.SuggestedContextBefore == "" || diag.SuggestedContextAfter == "" {
		t.Errorf("expected suggested disambiguation context, got before=%q after=%q", diag.SuggestedContextBefore, diag.SuggestedContextAfter)
	}
}

func TestFindUniqueDisambiguatedByProposedContext(t *testing.T) {
	body := "before one\n- common\nmiddle\n- common\nafter one\n"
	_, diag := FindUnique(body, "- common", "", "", 0.5)
	if diag == nil {
		t.Fatalf("expected a diagnostic on the first attempt")
	}
	r, diag2 := FindUnique(body, "- common", diag.SuggestedContextBefore, "", 0.5)
	if diag2 != nil {
		t.Fatalf("expected the suggested context to disambiguate, got %+v", diag2)
	}
	if body[r.Start:r.End] != "- common" {
		t.Errorf("resolved wrong range: %q", body[r.Start:r.End])
	}
}

func TestFindUniqueNotFoundCarriesPreviewAndHint(t *testing.T) {
	body := "the quick brown fox jumps\nover the lazy dog\n"
	_, diag := FindUnique(body, "the quikc brown fox", "", "", 0.5)
	if diag == nil || diag.Kind != NotFound {
		t.Fatalf("expected NotFound diagnostic, got %+v", diag)
	}
	if diag.Preview == "" {
		t.Errorf("expected a non-empty preview")
	}
	if diag.DidYouMean != "the quick brown fox jumps" {
		t.Errorf("DidYouMean = %q, want the closest line", diag.DidYouMean)
	}
}

func TestFindUniqueHintGatedByThreshold(t *testing.T) {
	body := "the quick brown fox jumps\nover the lazy dog\n"
	_, diag := FindUnique(body, "the quikc brown fox", "", "", 0.95)
	if diag == nil || diag.Kind != NotFound {
		t.Fatalf("expected NotFound diagnostic, got %+v", diag)
	}
	if diag.DidYouMean != "" {
		t.Errorf("expected no hint when similarity is below the threshold, got %q", diag.DidYouMean)
	}
}

func TestFindUniqueContextNarrowsToOneOccurrence(t *testing.T) {
	body := "# section\nfoo\nbar\nfoo\nbaz\n"
	r, diag := FindUnique(body, "foo", "bar\n", "", 0.5)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %+v", diag)
	}
	if body[r.Start:r.End] != "foo" {
		t.Fatalf("wrong match: %q", body[r.Start:r.End])
	}
	if r.Start < len("# section\nfoo\nbar\n") {
		t.Errorf("expected the second 'foo' (after 'bar'), got offset %d", r.Start)
	}
}
