// Package match resolves content fingerprints: a literal content
// fingerprint, with optional surrounding context, to a unique byte range
// within a section body.
package match

import "strings"

// Range is a resolved half-open byte range within a section body.
type Range struct {
	Start int
	End   int
}

// DiagnosticKind distinguishes the two ways FindUnique can fail to resolve
// to exactly one range.
type DiagnosticKind int

const (
	NotFound DiagnosticKind = iota
	MultipleMatches
)

// MatchInfo describes one candidate occurrence, used when reporting a
// multiple-matches diagnostic.
type MatchInfo struct {
	Range  Range
	Line   int
	Before string
	After  string
}

// Diagnostic is returned instead of a Range when zero or more than one
// occurrence survives context filtering.
type Diagnostic struct {
	Kind DiagnosticKind

	// Preview is a 300-character section preview (not-found only).
	Preview string

	// DidYouMean is the section line with the highest Jaccard bigram
	// similarity to matchContent, when that similarity meets the caller's
	// threshold (not-found only).
	DidYouMean string

	// Matches lists every surviving candidate occurrence (multiple-matches
	// only), each with its line number and surrounding context.
	Matches []MatchInfo

	// SuggestedContextBefore/After is derived from the first match's
	// immediately preceding/following non-empty lines (multiple-matches
	// only), offered back to the caller to disambiguate on retry.
	SuggestedContextBefore string
	SuggestedContextAfter  string
}

const contextWindowSlack = 20
const previewLength = 300

// FindUnique resolves matchContent (optionally constrained by surrounding
// context) to exactly one occurrence within sectionBody.
// contextBefore/contextAfter are empty strings when not provided.
// fuzzyThreshold is the minimum Jaccard bigram similarity for a "did you
// mean" hint on a not-found diagnostic.
func FindUnique(sectionBody, matchContent, contextBefore, contextAfter string, fuzzyThreshold float64) (Range, *Diagnostic) {
	occurrences := findAllOccurrences(sectionBody, matchContent)

	if contextBefore != "" {
		occurrences = filterByContextBefore(sectionBody, occurrences, contextBefore)
	}
	if contextAfter != "" {
		occurrences = filterByContextAfter(sectionBody, occurrences, contextAfter)
	}

	switch len(occurrences) {
	case 1:
		return occurrences[0], nil
	case 0:
		return Range{}, notFoundDiagnostic(sectionBody, matchContent, fuzzyThreshold)
	default:
		return Range{}, multipleMatchesDiagnostic(sectionBody, occurrences)
	}
}

func findAllOccurrences(body, needle string) []Range {
	if needle == "" {
		return nil
	}
	var out []Range
	from := 0
	for {
		i := strings.Index(body[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		out = append(out, Range{Start: start, End: end})
		from = start + 1
	}
	return out
}

func filterByContextBefore(body string, occurrences []Range, contextBefore string) []Range {
	var out []Range
	for _, occ := range occurrences {
		winStart := occ.Start - len(contextBefore) - contextWindowSlack
		if winStart < 0 {
			winStart = 0
		}
		window := body[winStart:occ.Start]
		if strings.Contains(window, contextBefore) {
			out = append(out, occ)
		}
	}
	return out
}

func filterByContextAfter(body string, occurrences []Range, contextAfter string) []Range {
	var out []Range
	for _, occ := range occurrences {
		winEnd := occ.End + len(contextAfter) + contextWindowSlack
		if winEnd > len(body) {
			winEnd = len(body)
		}
		window := body[occ.End:winEnd]
		if strings.Contains(window, contextAfter) {
			out = append(out, occ)
		}
	}
	return out
}

func notFoundDiagnostic(body, matchContent string, fuzzyThreshold float64) *Diagnostic {
	preview := body
	if runes := []rune(preview); len(runes) > previewLength {
		preview = string(runes[:previewLength])
	}
	d := &Diagnostic{Kind: NotFound, Preview: preview}
	if hint, similarity := bestLineBySimilarity(body, matchContent); similarity >= fuzzyThreshold {
		d.DidYouMean = hint
	}
	return d
}

func multipleMatchesDiagnostic(body string, occurrences []Range) *Diagnostic {
	d := &Diagnostic{Kind: MultipleMatches}
	for _, occ := range occurrences {
		d.Matches = append(d.Matches, MatchInfo{
			Range:  occ,
			Line:   lineNumberOf(body, occ.Start),
			Before: surroundingBefore(body, occ.Start),
			After:  surroundingAfter(body, occ.End),
		})
	}
	first := occurrences[0]
	d.SuggestedContextBefore = precedingNonEmptyLine(body, first.Start)
	d.SuggestedContextAfter = followingNonEmptyLine(body, first.End)
	return d
}

func lineNumberOf(body string, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(body); i++ {
		if body[i] == '\n' {
			line++
		}
	}
	return line
}

func surroundingBefore(body string, offset int) string {
	start := offset - contextWindowSlack
	if start < 0 {
		start = 0
	}
	return body[start:offset]
}

func surroundingAfter(body string, offset int) string {
	end := offset + contextWindowSlack
	if end > len(body) {
		end = len(body)
	}
	return body[offset:end]
}

func precedingNonEmptyLine(body string, offset int) string {
	lines := strings.Split(body[:offset], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func followingNonEmptyLine(body string, offset int) string {
	lines := strings.Split(body[offset:], "\n")
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// bestLineBySimilarity returns the section line with the highest Jaccard
// bigram similarity to matchContent, and that similarity.
func bestLineBySimilarity(body, matchContent string) (string, float64) {
	needleBigrams := bigramSet(matchContent)
	if len(needleBigrams) == 0 {
		return "", 0
	}
	var best string
	var bestScore float64
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		score := jaccard(needleBigrams, bigramSet(trimmed))
		if score > bestScore {
			bestScore = score
			best = trimmed
		}
	}
	return best, bestScore
}

func bigramSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
