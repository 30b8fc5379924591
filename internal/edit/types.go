// Package edit validates, plans, and applies edit batches: it turns a
// batch of declarative edit intents into a validated, non-overlapping
// operation list and applies it atomically.
package edit

// Kind is the tagged variant of an edit intent.
type Kind string

const (
	ReplaceSectionAndTitle    Kind = "replace_section_and_title"
	ReplaceSectionContentOnly Kind = "replace_section_content_only"
	InsertSectionAndTitle     Kind = "insert_section_and_title"
	InsertSectionContentOnly  Kind = "insert_section_content_only"
	DeleteSectionAndTitle     Kind = "delete_section_and_title"
	DeleteSectionContentOnly  Kind = "delete_section_content_only"
)

// InsertionPosition is the positioning method for InsertSectionAndTitle.
type InsertionPosition string

const (
	PositionBefore InsertionPosition = "before"
	PositionAfter  InsertionPosition = "after"
	PositionInside InsertionPosition = "inside"
)

// LineRange is an absolute, 1-based, inclusive line positioning method.
type LineRange struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// ContentMatch is a literal-text positioning method with optional
// surrounding context. Position is only meaningful for
// InsertSectionContentOnly ("before" | "after" the match).
type ContentMatch struct {
	MatchContent  string `json:"matchContent"`
	ContextBefore string `json:"contextBefore,omitempty"`
	ContextAfter  string `json:"contextAfter,omitempty"`
	Position      string `json:"position,omitempty"`
}

// Target names the section an intent operates on, plus at most one
// positioning method.
type Target struct {
	SID               string            `json:"sid"`
	LineRange         *LineRange        `json:"lineRange,omitempty"`
	ContentMatch      *ContentMatch     `json:"contentMatch,omitempty"`
	InsertionPosition InsertionPosition `json:"insertionPosition,omitempty"`
}

// Intent is one declarative edit request.
type Intent struct {
	Type         Kind   `json:"type"`
	Target       Target `json:"target"`
	Content      string `json:"content,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Priority     int    `json:"priority"`
	ValidateOnly bool   `json:"validateOnly,omitempty"`

	// seq is the intent's position in the submitted batch, used to break
	// priority ties deterministically.
	seq int
}

// WithSeq returns a copy of the intent stamped with its batch position.
// The engine calls this once per intent before validation so seq survives
// into every copy planning makes of it.
func (i Intent) WithSeq(seq int) Intent {
	i.seq = seq
	return i
}

// Seq returns the intent's batch position set by WithSeq.
func (i Intent) Seq() int { return i.seq }

// Batch is an ordered collection of intents targeting one document.
type Batch struct {
	Intents      []Intent
	DocumentPath string
}

// ErrorKind enumerates the failure categories surfaced on intents and
// batches.
type ErrorKind string

const (
	ErrSectionNotFound         ErrorKind = "SECTION_NOT_FOUND"
	ErrDeleteThenModifySameSID ErrorKind = "DELETE_THEN_MODIFY_SAME_SID"
	ErrContentMatchRequired    ErrorKind = "CONTENT_MATCH_REQUIRED"
	ErrMatchNotFound           ErrorKind = "MATCH_NOT_FOUND"
	ErrMultipleMatches         ErrorKind = "MULTIPLE_MATCHES"
	ErrLineRangeOutOfSection   ErrorKind = "LINE_RANGE_OUT_OF_SECTION"
	ErrOverlappingEdits        ErrorKind = "OVERLAPPING_EDITS"
	ErrApplyEditFailed         ErrorKind = "APPLY_EDIT_FAILED"
	ErrUnsafePath              ErrorKind = "UNSAFE_PATH"
	ErrNoWorkspace             ErrorKind = "NO_WORKSPACE"
	ErrCancelled               ErrorKind = "CANCELLED"
	ErrParseWarning            ErrorKind = "PARSE_WARNING"

	// ErrInvalidIntent is a schema-level failure not named in the error
	// kind table (missing SID, more than one positioning method, a
	// non-string content field): the table covers semantic failures once
	// an intent is well-formed, but a malformed envelope still needs an
	// intent-scoped kind to report through.
	ErrInvalidIntent ErrorKind = "INVALID_INTENT"

	// ErrBatchAborted marks an intent that resolved successfully but was
	// not applied because a sibling intent in the same batch failed: the
	// facade commits all-or-nothing, so a partial success never reaches
	// the document.
	ErrBatchAborted ErrorKind = "BATCH_ABORTED"
)

// FailedIntent records why one intent did not apply.
type FailedIntent struct {
	Intent       Intent    `json:"intent"`
	ErrorKind    ErrorKind `json:"errorKind"`
	ErrorMessage string    `json:"errorMessage"`
	Suggestion   string    `json:"suggestion,omitempty"`
}

// PlannedOperation is a resolved, ready-to-apply edit.
type PlannedOperation struct {
	ByteStart   int
	ByteEnd     int
	UTF16Start  int
	UTF16End    int
	Replacement string
	Source      *Intent
}

// Metadata carries batch-result bookkeeping.
type Metadata struct {
	ExecutionMillis     int64  `json:"executionMillis"`
	DocumentUTF16Length int    `json:"documentUtf16Length"`
	Timestamp           string `json:"timestamp"`
	ConflictRule        string `json:"rule,omitempty"`

	// BatchID correlates this result with its audit log lines (a UUID
	// minted once per executeMarkdownEdits call).
	BatchID string `json:"batchId"`
}

// Result is the outcome of one executeMarkdownEdits call.
// Atomicity invariant: Success == true implies
// SuccessfulIntents == TotalIntents; Success == false implies the document
// is byte-identical to its pre-batch snapshot.
type Result struct {
	Success           bool           `json:"success"`
	TotalIntents      int            `json:"totalIntents"`
	SuccessfulIntents int            `json:"successfulIntents"`
	AppliedIntents    []Intent       `json:"appliedIntents"`
	FailedIntents     []FailedIntent `json:"failedIntents"`
	Warnings          []string       `json:"warnings,omitempty"`
	Metadata          Metadata       `json:"metadata"`
}
