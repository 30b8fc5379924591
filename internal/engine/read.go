package engine

import (
	"context"
	"strings"

	"structdoc/internal/edit"
	"structdoc/internal/logging"
	"structdoc/internal/markdown"
	"structdoc/internal/structure"
)

// ReadMode selects the shape of ReadMarkdownFile's response.
type ReadMode string

const (
	ModeContent   ReadMode = "content"
	ModeStructure ReadMode = "structure"
	ModeToC       ReadMode = "toc"
	ModeFull      ReadMode = "full"
)

// ReadTargetKind distinguishes the two target lookup strategies a read
// request supports.
type ReadTargetKind string

const (
	ReadTargetSection ReadTargetKind = "section"
	ReadTargetKeyword ReadTargetKind = "keyword"
)

// ReadTarget names either a specific section (by SID) or a keyword search
// to run against every section body.
type ReadTarget struct {
	Type       ReadTargetKind
	SID        string
	Query      []string
	MaxResults int
}

// SectionExcerpt is one section-target result: the section's identity plus
// its rendered body text.
type SectionExcerpt struct {
	SID       string `json:"sid"`
	DisplayId string `json:"displayId"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
}

// KeywordMatch is one keyword-target hit: the section it was found in, the
// absolute line, and a short surrounding excerpt.
type KeywordMatch struct {
	SID       string `json:"sid"`
	DisplayId string `json:"displayId"`
	Title     string `json:"title"`
	Line      int    `json:"line"`
	Excerpt   string `json:"excerpt"`
}

// ReadResult is the outcome of one readMarkdownFile call.
type ReadResult struct {
	Success        bool                        `json:"success"`
	ErrorKind      edit.ErrorKind              `json:"errorKind,omitempty"`
	ErrorMessage   string                      `json:"errorMessage,omitempty"`
	Content        string                      `json:"content,omitempty"`
	Structure      []*structure.ToCNode        `json:"structure,omitempty"`
	ToC            []*structure.TrimmedToCNode `json:"toc,omitempty"`
	SectionResults []SectionExcerpt            `json:"sectionResults,omitempty"`
	KeywordResults []KeywordMatch              `json:"keywordResults,omitempty"`
	Metadata       edit.Metadata               `json:"metadata"`
}

// ReadMarkdownFile is the read-only entry point: it parses and
// analyzes the document exactly as ExecuteMarkdownEdits does, but never
// writes anything back through the host. Output shape depends on mode:
//   - content:   full text plus optional per-target excerpts
//   - structure: full ToC tree with line numbers/flags; results are always empty
//     (deliberate, to keep responses small)
//   - toc:       the trimmed ToC tree only
//   - full:      structure + content results together
func (e *Engine) ReadMarkdownFile(ctx context.Context, targetFile string, mode ReadMode, targets []ReadTarget) *ReadResult {
	path, err := resolvePath(e.Config, targetFile)
	if err != nil {
		pe := err.(*PathError)
		return &ReadResult{ErrorKind: pe.Kind, ErrorMessage: pe.Message}
	}

	raw, _, err := e.Host.ReadDocument(ctx, path)
	if err != nil {
		return &ReadResult{ErrorKind: edit.ErrNoWorkspace, ErrorMessage: "failed to read document: " + err.Error()}
	}

	doc, root, warnings, err := markdown.Parse(raw)
	if err != nil {
		return &ReadResult{ErrorKind: edit.ErrParseWarning, ErrorMessage: "failed to parse document: " + err.Error()}
	}
	idx := structure.Analyze(doc, root)

	result := &ReadResult{
		Success:  true,
		Metadata: edit.Metadata{DocumentUTF16Length: doc.UTF16().ByteToUTF16(len(doc.Bytes))},
	}

	switch mode {
	case ModeStructure:
		result.Structure = structure.FullTree(idx)
	case ModeToC:
		result.ToC = structure.TrimmedTree(idx)
	case ModeContent:
		result.Content = string(doc.Bytes)
		result.SectionResults, result.KeywordResults = resolveTargets(doc, idx, targets)
	case ModeFull:
		result.Structure = structure.FullTree(idx)
		result.Content = string(doc.Bytes)
		result.SectionResults, result.KeywordResults = resolveTargets(doc, idx, targets)
	default:
		return &ReadResult{ErrorKind: edit.ErrInvalidIntent, ErrorMessage: "unknown parseMode " + string(mode)}
	}

	if len(warnings) > 0 {
		logWarnings(path, warnings)
	}
	return result
}

func logWarnings(path string, warnings []markdown.Warning) {
	for _, w := range warnings {
		logging.ParserWarn("%s: %s", path, w.Message)
	}
}

func resolveTargets(doc *markdown.Document, idx *structure.Index, targets []ReadTarget) ([]SectionExcerpt, []KeywordMatch) {
	var sections []SectionExcerpt
	var keywords []KeywordMatch
	for _, t := range targets {
		switch t.Type {
		case ReadTargetSection:
			if s := idx.Lookup(t.SID); s != nil {
				sections = append(sections, SectionExcerpt{
					SID:       s.SID,
					DisplayId: s.DisplayId,
					Title:     s.NormalizedTitle,
					Excerpt:   string(doc.Bytes[s.BodyStart:s.BodyEnd]),
				})
			}
		case ReadTargetKeyword:
			keywords = append(keywords, searchKeywords(doc, idx, t)...)
		}
	}
	return sections, keywords
}

func searchKeywords(doc *markdown.Document, idx *structure.Index, t ReadTarget) []KeywordMatch {
	max := t.MaxResults
	if max <= 0 {
		max = 20
	}
	var out []KeywordMatch
	for _, sid := range idx.SIDs() {
		s := idx.Lookup(sid)
		if s == nil || s.Level == 0 {
			continue
		}
		// Scan only the section's own text, not its descendants: a hit
		// inside a subsection is attributed to the deepest section owning it.
		end := s.BodyEnd
		if len(s.Children) > 0 {
			end = s.Children[0].HeadingStart
		}
		body := string(doc.Bytes[s.BodyStart:end])
		for _, line := range strings.Split(body, "\n") {
			lower := strings.ToLower(line)
			if !matchesAnyQuery(lower, t.Query) {
				continue
			}
			out = append(out, KeywordMatch{
				SID:       s.SID,
				DisplayId: s.DisplayId,
				Title:     s.NormalizedTitle,
				Line:      doc.Lines().LineOf(s.BodyStart + strings.Index(body, line)),
				Excerpt:   strings.TrimSpace(line),
			})
			if len(out) >= max {
				return out
			}
		}
	}
	return out
}

func matchesAnyQuery(lowerLine string, query []string) bool {
	for _, q := range query {
		if q == "" {
			continue
		}
		if strings.Contains(lowerLine, strings.ToLower(q)) {
			return true
		}
	}
	return false
}
