package markdown

import "structdoc/internal/edit"

// The raw* types mirror the loosely-typed JSON request envelopes exactly;
// mapstructure.Decode turns a caller's map[string]any into these before
// toIntent()/conversion produces the typed internal/edit values the
// validator checks. Keeping this decode step isolated here means
// internal/edit never has to know about the wire format.

type rawLineRange struct {
	StartLine int `mapstructure:"startLine"`
	EndLine   int `mapstructure:"endLine"`
}

type rawContentMatch struct {
	MatchContent  string `mapstructure:"matchContent"`
	ContextBefore string `mapstructure:"contextBefore"`
	ContextAfter  string `mapstructure:"contextAfter"`
	Position      string `mapstructure:"position"`
}

type rawTarget struct {
	SID               string           `mapstructure:"sid"`
	LineRange         *rawLineRange    `mapstructure:"lineRange"`
	ContentMatch      *rawContentMatch `mapstructure:"contentMatch"`
	InsertionPosition string           `mapstructure:"insertionPosition"`
}

type rawIntent struct {
	Type         string    `mapstructure:"type"`
	Target       rawTarget `mapstructure:"target"`
	Content      string    `mapstructure:"content"`
	Reason       string    `mapstructure:"reason"`
	Priority     int       `mapstructure:"priority"`
	ValidateOnly bool      `mapstructure:"validateOnly"`
}

type rawEditRequest struct {
	Intents    []rawIntent `mapstructure:"intents"`
	TargetFile string      `mapstructure:"targetFile"`
}

type rawReadTarget struct {
	Type       string   `mapstructure:"type"`
	SID        string   `mapstructure:"sid"`
	Query      []string `mapstructure:"query"`
	MaxResults int      `mapstructure:"maxResults"`
}

type rawReadRequest struct {
	Path      string          `mapstructure:"path"`
	ParseMode string          `mapstructure:"parseMode"`
	Targets   []rawReadTarget `mapstructure:"targets"`
}

// toIntent converts one decoded wire intent into the typed edit.Intent C5
// validates. Unknown Type strings pass through unchanged; ValidateSchema
// reports those as INVALID_INTENT rather than this layer silently dropping
// them.
func (ri rawIntent) toIntent() edit.Intent {
	return edit.Intent{
		Type:         edit.Kind(ri.Type),
		Target:       ri.Target.toTarget(),
		Content:      ri.Content,
		Reason:       ri.Reason,
		Priority:     ri.Priority,
		ValidateOnly: ri.ValidateOnly,
	}
}

func (rt rawTarget) toTarget() edit.Target {
	t := edit.Target{
		SID:               rt.SID,
		InsertionPosition: edit.InsertionPosition(rt.InsertionPosition),
	}
	if rt.LineRange != nil {
		t.LineRange = &edit.LineRange{StartLine: rt.LineRange.StartLine, EndLine: rt.LineRange.EndLine}
	}
	if rt.ContentMatch != nil {
		t.ContentMatch = &edit.ContentMatch{
			MatchContent:  rt.ContentMatch.MatchContent,
			ContextBefore: rt.ContentMatch.ContextBefore,
			ContextAfter:  rt.ContentMatch.ContextAfter,
			Position:      rt.ContentMatch.Position,
		}
	}
	return t
}
