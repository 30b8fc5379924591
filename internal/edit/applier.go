package edit

// Apply performs a single linear walk over the source: emit
// source up to each operation's start, emit its replacement, advance the
// cursor past the operation, then flush the remainder. ops must already be
// sorted and pairwise-disjoint (Plan guarantees this).
func Apply(source []byte, ops []PlannedOperation) []byte {
	out := make([]byte, 0, len(source))
	cursor := 0
	for _, op := range ops {
		out = append(out, source[cursor:op.ByteStart]...)
		out = append(out, op.Replacement...)
		cursor = op.ByteEnd
	}
	out = append(out, source[cursor:]...)
	return out
}
