// Package markdown parses Markdown: it turns raw document
// bytes into an AstNode tree with both byte and UTF-16 spans on every node,
// recognizing GFM and a leading YAML frontmatter block.
package markdown

import (
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Document is an immutable snapshot of one Markdown file, consumed by
// exactly one edit batch. Line endings are normalized to
// LF before parsing; external line-numbered input is interpreted against
// the normalized line breaks without further modification.
type Document struct {
	// Bytes is the normalized (LF-only) UTF-8 source.
	Bytes []byte

	// LastModified is an opaque fingerprint of the document's normalized
	// content, stable for identical bytes. The engine facade does not read
	// it and keeps no cache; internal/host returns its own marker built
	// from the raw bytes and the filesystem mtime.
	LastModified string

	lines *LineIndex
	utf16 *UTF16Index
}

// NewDocument builds a Document from raw bytes, normalizing CRLF/CR to LF.
func NewDocument(raw []byte) *Document {
	normalized := normalizeNewlines(raw)
	d := &Document{
		Bytes:        normalized,
		LastModified: fingerprint(normalized),
	}
	d.lines = buildLineIndex(normalized)
	d.utf16 = buildUTF16Index(normalized)
	return d
}

// Lines returns the document's line index (1-based line <-> byte offset
// translation), built once per parse.
func (d *Document) Lines() *LineIndex { return d.lines }

// UTF16 returns the document's byte-offset <-> UTF-16-code-unit translation
// table, built once per parse.
func (d *Document) UTF16() *UTF16Index { return d.utf16 }

// Len returns the document length in bytes.
func (d *Document) Len() int { return len(d.Bytes) }

func normalizeNewlines(raw []byte) []byte {
	if !containsCR(raw) {
		return raw
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b == '\r' {
			out = append(out, '\n')
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, b)
	}
	return out
}

func containsCR(b []byte) bool {
	for _, c := range b {
		if c == '\r' {
			return true
		}
	}
	return false
}

// fingerprint hashes document content with xxhash for a cheap, stable
// identity marker; callers that also have a filesystem mtime (internal/host)
// combine both into the externally-visible LastModified value.
func fingerprint(b []byte) string {
	sum := xxhash.Sum64(b)
	return formatHex(sum)
}

func formatHex(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(buf)
}

// ValidateUTF8 scans raw bytes for invalid UTF-8 sequences and replaces
// them with U+FFFD, returning the cleaned bytes and whether any replacement
// occurred. Parsing proceeds with a warning, never aborts.
func ValidateUTF8(raw []byte) (cleaned []byte, replaced bool) {
	if utf8.Valid(raw) {
		return raw, false
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
			i++
			replaced = true
			continue
		}
		out = append(out, raw[i:i+size]...)
		i += size
	}
	return out, replaced
}
