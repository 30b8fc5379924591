package edit

import "fmt"

// BatchRejection describes a batch-level semantic violation that aborts
// the whole batch before planning.
type BatchRejection struct {
	Rule  ErrorKind
	SID   string
	Kinds []string
}

// ValidateSchema checks one intent in isolation: known kind, at most one
// positioning method (an intent with none targets the whole section), a
// non-negative priority, and a present target SID. Delete-content-only
// intents must carry a contentMatch.
func ValidateSchema(intent *Intent) *FailedIntent {
	switch intent.Type {
	case ReplaceSectionAndTitle, ReplaceSectionContentOnly, InsertSectionAndTitle,
		InsertSectionContentOnly, DeleteSectionAndTitle, DeleteSectionContentOnly:
	default:
		return schemaFailure(intent, fmt.Sprintf("unknown intent type %q", intent.Type))
	}

	if intent.Target.SID == "" {
		return schemaFailure(intent, "target.sid is required")
	}

	positioningCount := 0
	if intent.Target.LineRange != nil {
		positioningCount++
	}
	if intent.Target.ContentMatch != nil {
		positioningCount++
	}
	if intent.Target.InsertionPosition != "" {
		positioningCount++
	}
	if positioningCount > 1 {
		return schemaFailure(intent, "target must carry at most one positioning method")
	}

	if intent.Priority < 0 {
		return schemaFailure(intent, "priority must be non-negative")
	}

	if isDeleteContentOnly(intent.Type) && intent.Target.ContentMatch == nil {
		return &FailedIntent{
			Intent:       *intent,
			ErrorKind:    ErrContentMatchRequired,
			ErrorMessage: "delete_section_content_only requires a contentMatch target",
			Suggestion:   "add a contentMatch with the text to remove",
		}
	}

	return nil
}

func schemaFailure(intent *Intent, message string) *FailedIntent {
	return &FailedIntent{
		Intent:       *intent,
		ErrorKind:    ErrInvalidIntent,
		ErrorMessage: message,
		Suggestion:   "correct the intent envelope and resubmit",
	}
}

func isDeleteContentOnly(k Kind) bool { return k == DeleteSectionContentOnly }
func isDelete(k Kind) bool {
	return k == DeleteSectionAndTitle || k == DeleteSectionContentOnly
}
func isModify(k Kind) bool {
	return k == ReplaceSectionAndTitle || k == ReplaceSectionContentOnly ||
		k == InsertSectionAndTitle || k == InsertSectionContentOnly
}

// ValidateBatchSemantics applies the batch-wide rule: a SID with both a
// delete and a modify intent rejects the entire batch.
// Multiple deletes on the same SID are allowed (idempotent); multiple
// modifies are allowed here and checked for range overlap by the planner.
func ValidateBatchSemantics(intents []Intent) *BatchRejection {
	hasDelete := map[string]bool{}
	hasModify := map[string]bool{}
	kindsBySID := map[string][]string{}

	for _, intent := range intents {
		sid := intent.Target.SID
		switch {
		case isDelete(intent.Type):
			hasDelete[sid] = true
		case isModify(intent.Type):
			hasModify[sid] = true
		}
		kindsBySID[sid] = append(kindsBySID[sid], string(intent.Type))
	}

	for sid := range hasDelete {
		if hasModify[sid] {
			return &BatchRejection{Rule: ErrDeleteThenModifySameSID, SID: sid, Kinds: kindsBySID[sid]}
		}
	}
	return nil
}
