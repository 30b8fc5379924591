package structure

// ToCNode is the full-mode table-of-contents view: per-node line numbers,
// word counts and content-classification flags alongside identity and
// display fields. Byte and UTF-16 offsets are not included.
type ToCNode struct {
	SID             string     `json:"sid"`
	ParentSID       string     `json:"parentSid,omitempty"`
	DisplayId       string     `json:"displayId"`
	Title           string     `json:"title"`
	Level           int        `json:"level"`
	CharacterCount  int        `json:"characterCount"`
	WordCount       int        `json:"wordCount"`
	HeadingLine     int        `json:"headingLine,omitempty"`
	BodyEndLine     int        `json:"bodyEndLine"`
	ContainsCode    bool       `json:"containsCode"`
	ContainsTables  bool       `json:"containsTables"`
	ContainsLists   bool       `json:"containsLists"`
	Children        []*ToCNode `json:"children,omitempty"`
}

// TrimmedToCNode is the "toc" parseMode view: identity, display, and size
// only, omitting offsets and classification flags to keep responses small.
type TrimmedToCNode struct {
	SID            string            `json:"sid"`
	ParentSID      string            `json:"parentSid,omitempty"`
	DisplayId      string            `json:"displayId"`
	Title          string            `json:"title"`
	Level          int               `json:"level"`
	CharacterCount int               `json:"characterCount"`
	Children       []*TrimmedToCNode `json:"children,omitempty"`
}

// FullTree renders the index as the full-mode ToC forest.
func FullTree(idx *Index) []*ToCNode {
	return fullNodes(idx.Roots)
}

func fullNodes(secs []*Section) []*ToCNode {
	out := make([]*ToCNode, 0, len(secs))
	for _, s := range secs {
		out = append(out, &ToCNode{
			SID:            s.SID,
			ParentSID:      s.ParentSID,
			DisplayId:      s.DisplayId,
			Title:          s.NormalizedTitle,
			Level:          s.Level,
			CharacterCount: s.CharacterCount,
			WordCount:      s.WordCount,
			HeadingLine:    s.HeadingLine,
			BodyEndLine:    s.BodyEndLine,
			ContainsCode:   s.ContainsCode,
			ContainsTables: s.ContainsTables,
			ContainsLists:  s.ContainsLists,
			Children:       fullNodes(s.Children),
		})
	}
	return out
}

// TrimmedTree renders the index as the "toc" parseMode forest.
func TrimmedTree(idx *Index) []*TrimmedToCNode {
	return trimmedNodes(idx.Roots)
}

func trimmedNodes(secs []*Section) []*TrimmedToCNode {
	out := make([]*TrimmedToCNode, 0, len(secs))
	for _, s := range secs {
		out = append(out, &TrimmedToCNode{
			SID:            s.SID,
			ParentSID:      s.ParentSID,
			DisplayId:      s.DisplayId,
			Title:          s.NormalizedTitle,
			Level:          s.Level,
			CharacterCount: s.CharacterCount,
			Children:       trimmedNodes(s.Children),
		})
	}
	return out
}
