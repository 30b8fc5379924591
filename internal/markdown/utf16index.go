package markdown

import (
	"sort"
	"unicode/utf8"
)

// UTF16Index translates between byte offsets and UTF-16 code-unit offsets.
// External positions are UTF-16 code units to match the dominant
// editor-host convention; internal offsets stay byte-based.
// Built once per parse as a table of rune boundaries, supporting O(log n)
// translation at either direction.
type UTF16Index struct {
	// byteAt[i] and utf16At[i] are parallel: byteAt[i] is the byte offset
	// of the i-th rune boundary, utf16At[i] is its UTF-16 offset.
	byteAt  []int
	utf16At []int
}

func buildUTF16Index(b []byte) *UTF16Index {
	idx := &UTF16Index{byteAt: []int{0}, utf16At: []int{0}}
	byteOff := 0
	utf16Off := 0
	for byteOff < len(b) {
		r, size := utf8.DecodeRune(b[byteOff:])
		if size == 0 {
			break
		}
		byteOff += size
		if n := utf16RuneLen(r); n > 0 {
			utf16Off += n
		} else {
			utf16Off++
		}
		idx.byteAt = append(idx.byteAt, byteOff)
		idx.utf16At = append(idx.utf16At, utf16Off)
	}
	return idx
}

// utf16RuneLen reports the number of UTF-16 code units required to encode
// r, or -1 if r is not a valid rune. Equivalent to unicode/utf16.RuneLen
// (added in a newer stdlib than this module's build toolchain provides).
func utf16RuneLen(r rune) int {
	switch {
	case 0 <= r && r < 0xd800, 0xe000 <= r && r < 0x10000:
		return 1
	case 0x10000 <= r && r <= 0x10ffff:
		return 2
	default:
		return -1
	}
}

// ByteToUTF16 converts a byte offset (assumed to fall on a rune boundary,
// as every AstNode span does) to a UTF-16 code-unit offset.
func (u *UTF16Index) ByteToUTF16(byteOffset int) int {
	i := sort.SearchInts(u.byteAt, byteOffset)
	if i < len(u.byteAt) && u.byteAt[i] == byteOffset {
		return u.utf16At[i]
	}
	// Not an exact rune boundary (shouldn't happen for AST spans); fall
	// back to the nearest preceding boundary.
	if i > 0 {
		return u.utf16At[i-1]
	}
	return 0
}

// UTF16ToByte converts a UTF-16 code-unit offset back to a byte offset.
func (u *UTF16Index) UTF16ToByte(utf16Offset int) int {
	i := sort.SearchInts(u.utf16At, utf16Offset)
	if i < len(u.utf16At) && u.utf16At[i] == utf16Offset {
		return u.byteAt[i]
	}
	if i > 0 {
		return u.byteAt[i-1]
	}
	return 0
}
