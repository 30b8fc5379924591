package edit

import (
	"fmt"
	"sort"

	"structdoc/internal/markdown"
	"structdoc/internal/match"
	"structdoc/internal/structure"
)

// BatchFailure is a batch-scoped planning failure that aborts the whole
// batch: no writes occur and every intent is reported failed.
type BatchFailure struct {
	Rule ErrorKind
}

// Plan resolves a validated batch of intents into a sorted,
// non-overlapping operation list. fuzzyThreshold tunes the "did you mean"
// hint on not-found content matches. failedIntents holds intent-scoped
// resolution failures; a non-nil BatchFailure means planning as a whole
// aborted and every intent (including those otherwise resolved) must be
// reported failed.
func Plan(intents []Intent, idx *structure.Index, doc *markdown.Document, fuzzyThreshold float64) ([]PlannedOperation, []FailedIntent, *BatchFailure) {
	ordered := orderForProcessing(intents)

	var ops []PlannedOperation
	var failed []FailedIntent
	removedSIDs := map[string]bool{}

	for _, intent := range ordered {
		intent := intent
		sid := intent.Target.SID

		section := idx.Lookup(sid)
		if section == nil || removedSIDs[sid] {
			failed = append(failed, sectionNotFound(&intent, idx))
			continue
		}

		byteStart, byteEnd, replacement, failure := resolveIntent(&intent, section, doc, fuzzyThreshold)
		if failure != nil {
			failed = append(failed, *failure)
			continue
		}

		if intent.Type == DeleteSectionAndTitle {
			markRemoved(section, removedSIDs)
		}

		ops = append(ops, PlannedOperation{
			ByteStart:   byteStart,
			ByteEnd:     byteEnd,
			UTF16Start:  doc.UTF16().ByteToUTF16(byteStart),
			UTF16End:    doc.UTF16().ByteToUTF16(byteEnd),
			Replacement: replacement,
			Source:      &intent,
		})
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].ByteStart != ops[j].ByteStart {
			return ops[i].ByteStart < ops[j].ByteStart
		}
		return ops[i].ByteEnd < ops[j].ByteEnd
	})

	for i := 1; i < len(ops); i++ {
		if ops[i-1].ByteEnd > ops[i].ByteStart {
			return nil, nil, &BatchFailure{Rule: ErrOverlappingEdits}
		}
	}

	return ops, failed, nil
}

// orderForProcessing resolves delete-section-and-title intents first (they
// remove the largest ranges), then the rest by descending priority with
// submission order as the tiebreaker.
func orderForProcessing(intents []Intent) []Intent {
	out := make([]Intent, len(intents))
	copy(out, intents)
	sort.SliceStable(out, func(i, j int) bool {
		iDel := out[i].Type == DeleteSectionAndTitle
		jDel := out[j].Type == DeleteSectionAndTitle
		if iDel != jDel {
			return iDel
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func markRemoved(section *structure.Section, removed map[string]bool) {
	removed[section.SID] = true
	for _, c := range section.Children {
		markRemoved(c, removed)
	}
}

func sectionNotFound(intent *Intent, idx *structure.Index) FailedIntent {
	hint := closestSID(intent.Target.SID, idx.SIDs())
	suggestion := "call readMarkdownFile to refresh the SID index"
	if hint != "" {
		suggestion = fmt.Sprintf("did you mean %q? %s", hint, suggestion)
	}
	return FailedIntent{
		Intent:       *intent,
		ErrorKind:    ErrSectionNotFound,
		ErrorMessage: fmt.Sprintf("no section with SID %q", intent.Target.SID),
		Suggestion:   suggestion,
	}
}

// resolveIntent computes the byte range and normalized replacement text for
// one intent, or a failure record.
func resolveIntent(intent *Intent, section *structure.Section, doc *markdown.Document, fuzzyThreshold float64) (start, end int, replacement string, failure *FailedIntent) {
	switch intent.Type {
	case ReplaceSectionAndTitle:
		return section.HeadingStart, section.BodyEnd, normalize(intent.Content), nil

	case DeleteSectionAndTitle:
		end := section.BodyEnd
		if end < len(doc.Bytes) && doc.Bytes[end] == '\n' {
			end++
		}
		return section.HeadingStart, end, "", nil

	case ReplaceSectionContentOnly:
		return resolveWithinSection(intent, section, doc, intent.Content, fuzzyThreshold)

	case DeleteSectionContentOnly:
		s, e, f := resolveContentMatch(intent, section, doc, fuzzyThreshold)
		if f != nil {
			return 0, 0, "", f
		}
		return s, e, "", nil

	case InsertSectionContentOnly:
		return resolveInsertContentOnly(intent, section, doc, fuzzyThreshold)

	case InsertSectionAndTitle:
		return resolveInsertSectionAndTitle(intent, section, doc)
	}
	return 0, 0, "", &FailedIntent{Intent: *intent, ErrorKind: ErrInvalidIntent, ErrorMessage: "unhandled intent type"}
}

func resolveWithinSection(intent *Intent, section *structure.Section, doc *markdown.Document, content string, fuzzyThreshold float64) (int, int, string, *FailedIntent) {
	t := intent.Target
	switch {
	case t.LineRange != nil:
		lines := doc.Lines()
		minLine := section.HeadingLine + 1
		if section.Level == 0 {
			minLine = 1
		}
		maxLine := section.BodyEndLine
		if t.LineRange.StartLine < minLine || t.LineRange.EndLine > maxLine || t.LineRange.StartLine > t.LineRange.EndLine {
			return 0, 0, "", &FailedIntent{
				Intent:       *intent,
				ErrorKind:    ErrLineRangeOutOfSection,
				ErrorMessage: fmt.Sprintf("line range %d-%d falls outside section body lines %d-%d", t.LineRange.StartLine, t.LineRange.EndLine, minLine, maxLine),
				Suggestion:   "call readMarkdownFile to confirm the section's current line range",
			}
		}
		return lines.LineStart(t.LineRange.StartLine), lines.LineEnd(t.LineRange.EndLine), normalize(content), nil

	case t.ContentMatch != nil:
		s, e, f := resolveContentMatch(intent, section, doc, fuzzyThreshold)
		if f != nil {
			return 0, 0, "", f
		}
		return s, e, normalize(content), nil

	default:
		return section.BodyStart, section.BodyEnd, normalize(content), nil
	}
}

func resolveContentMatch(intent *Intent, section *structure.Section, doc *markdown.Document, fuzzyThreshold float64) (int, int, *FailedIntent) {
	cm := intent.Target.ContentMatch
	if cm == nil {
		return 0, 0, &FailedIntent{
			Intent:       *intent,
			ErrorKind:    ErrContentMatchRequired,
			ErrorMessage: "this intent requires a contentMatch target",
			Suggestion:   "add a contentMatch with the text to locate",
		}
	}
	body := string(doc.Bytes[section.BodyStart:section.BodyEnd])
	r, diag := match.FindUnique(body, cm.MatchContent, cm.ContextBefore, cm.ContextAfter, fuzzyThreshold)
	if diag != nil {
		return 0, 0, diagnosticToFailure(intent, diag)
	}
	return section.BodyStart + r.Start, section.BodyStart + r.End, nil
}

func diagnosticToFailure(intent *Intent, diag *match.Diagnostic) *FailedIntent {
	if diag.Kind == match.NotFound {
		suggestion := "add or adjust contextBefore/contextAfter"
		if diag.DidYouMean != "" {
			suggestion = fmt.Sprintf("did you mean: %q? %s", diag.DidYouMean, suggestion)
		}
		return &FailedIntent{
			Intent:       *intent,
			ErrorKind:    ErrMatchNotFound,
			ErrorMessage: fmt.Sprintf("matchContent not found; section preview: %q", diag.Preview),
			Suggestion:   suggestion,
		}
	}
	return &FailedIntent{
		Intent:       *intent,
		ErrorKind:    ErrMultipleMatches,
		ErrorMessage: fmt.Sprintf("matchContent occurs %d times in the section", len(diag.Matches)),
		Suggestion: fmt.Sprintf("retry with contextBefore=%q and/or contextAfter=%q to disambiguate",
			diag.SuggestedContextBefore, diag.SuggestedContextAfter),
	}
}

func resolveInsertContentOnly(intent *Intent, section *structure.Section, doc *markdown.Document, fuzzyThreshold float64) (int, int, string, *FailedIntent) {
	t := intent.Target
	if t.ContentMatch != nil {
		body := string(doc.Bytes[section.BodyStart:section.BodyEnd])
		r, diag := match.FindUnique(body, t.ContentMatch.MatchContent, t.ContentMatch.ContextBefore, t.ContentMatch.ContextAfter, fuzzyThreshold)
		if diag != nil {
			return 0, 0, "", diagnosticToFailure(intent, diag)
		}
		pos := section.BodyStart + r.Start
		if t.ContentMatch.Position == "after" {
			pos = section.BodyStart + r.End
		}
		return pos, pos, normalize(intent.Content), nil
	}
	if t.LineRange != nil && t.LineRange.StartLine == t.LineRange.EndLine {
		pos := doc.Lines().LineStart(t.LineRange.StartLine)
		return pos, pos, normalize(intent.Content), nil
	}
	return 0, 0, "", &FailedIntent{
		Intent:       *intent,
		ErrorKind:    ErrContentMatchRequired,
		ErrorMessage: "insert_section_content_only requires a contentMatch, or a lineRange with startLine == endLine",
		Suggestion:   "add a contentMatch with position before/after, or a single-line lineRange",
	}
}

func resolveInsertSectionAndTitle(intent *Intent, section *structure.Section, doc *markdown.Document) (int, int, string, *FailedIntent) {
	var pos int
	switch intent.Target.InsertionPosition {
	case PositionBefore:
		pos = section.HeadingStart
	case PositionAfter:
		pos = section.BodyEnd
	case PositionInside:
		pos = section.BodyStart
	default:
		return 0, 0, "", &FailedIntent{
			Intent:       *intent,
			ErrorKind:    ErrInvalidIntent,
			ErrorMessage: "insert_section_and_title requires an insertionPosition of before, after, or inside",
		}
	}
	return pos, pos, normalize(intent.Content), nil
}

// normalize enforces the content normalization rule: a non-empty
// replacement that does not end with "\n" gets exactly one appended; a
// second pass is therefore idempotent.
func normalize(replacement string) string {
	if replacement == "" {
		return replacement
	}
	if replacement[len(replacement)-1] != '\n' {
		return replacement + "\n"
	}
	return replacement
}
