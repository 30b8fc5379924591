package markdown

import "sort"

// LineIndex translates between byte offsets and 1-based absolute line
// numbers. Built once per parse as a vector of line-start byte offsets;
// lookups binary-search that vector.
type LineIndex struct {
	// starts[i] is the byte offset where line i+1 (1-based) begins.
	starts []int
	length int
}

func buildLineIndex(b []byte) *LineIndex {
	starts := []int{0}
	for i, c := range b {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, length: len(b)}
}

// LineCount returns the number of lines in the document. A document with
// no trailing newline still counts its final partial line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// LineStart returns the byte offset where 1-based line `line` begins.
// Lines beyond LineCount clamp to the document end.
func (li *LineIndex) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(li.starts) {
		return li.length
	}
	return li.starts[line-1]
}

// LineEnd returns the byte offset just past the line's content, including
// its trailing newline if present (i.e. the start of the next line, or the
// document end for the last line).
func (li *LineIndex) LineEnd(line int) int {
	if line < 1 {
		return 0
	}
	if line >= len(li.starts) {
		return li.length
	}
	return li.starts[line]
}

// LineOf returns the 1-based line number containing byte offset `offset`.
func (li *LineIndex) LineOf(offset int) int {
	if offset < 0 {
		offset = 0
	}
	// Largest i such that starts[i] <= offset.
	idx := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	if idx == 0 {
		return 1
	}
	return idx
}
