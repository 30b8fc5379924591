// Package slug turns section titles into the slug component of a Stable
// Section Identifier.
package slug

import (
	"regexp"
	"strings"
	"unicode"
)

var leadingNumberRe = regexp.MustCompile(`^\s*\d+(\.\d+)*\s*`)
var boldMarkerRe = regexp.MustCompile(`\*\*`)
var whitespaceRunRe = regexp.MustCompile(`\s+`)
var dashRunRe = regexp.MustCompile(`-+`)

// Slugify converts a heading title into a deterministic slug:
//  1. strip a leading "<digits>(.<digits>)*\s*" ordinal prefix
//  2. remove "**...**" emphasis markers
//  3. lowercase (Unicode-aware)
//  4. collapse whitespace runs to a single "-"
//  5. drop characters outside [word, -], where "word" includes letters,
//     digits, combining marks, and CJK ideographs
//  6. collapse "-" runs
//  7. trim leading/trailing "-"
//  8. empty result becomes "section"
func Slugify(title string) string {
	s := leadingNumberRe.ReplaceAllString(title, "")
	s = boldMarkerRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = whitespaceRunRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = stripNonWord(s)
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "section"
	}
	return s
}

// stripNonWord removes every rune that is not a letter, digit, mark
// (combining diacritic), or hyphen. Unicode-aware: this preserves
// diacritics, CJK ideographs, and other scripts instead of ASCII-folding
// them away.
func stripNonWord(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '-' || isWordRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
