package markdown

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structdoc/internal/config"
	"structdoc/internal/engine"
	"structdoc/internal/host"
	"structdoc/internal/tools"
)

func newTestEngine(t *testing.T, content string) (*engine.Engine, *host.AferoHost) {
	t.Helper()
	h := host.NewMemHost()
	require.NoError(t, afero.WriteFile(h.Fs(), "/ws/doc.md", []byte(content), 0o644))

	cfg := config.DefaultConfig()
	cfg.Workspace.Root = "/ws"
	return engine.New(h, cfg), h
}

func TestReadMarkdownFileToolReturnsToC(t *testing.T) {
	eng, _ := newTestEngine(t, "# A\n## B\nx\n")
	tool := ReadMarkdownFileTool(eng)

	out, err := tool.Execute(context.Background(), map[string]any{
		"path":      "doc.md",
		"parseMode": "toc",
	})
	require.NoError(t, err)

	var result engine.ReadResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	require.Len(t, result.ToC, 1)
	assert.Equal(t, "/a", result.ToC[0].SID)
	assert.Equal(t, "/a/b", result.ToC[0].Children[0].SID)
}

func TestExecuteMarkdownEditsToolAppliesBatch(t *testing.T) {
	eng, h := newTestEngine(t, "# A\n## B\nx\n## C\ny\n")
	tool := ExecuteMarkdownEditsTool(eng)

	intents := []map[string]any{
		{
			"type":     "replace_section_content_only",
			"target":   map[string]any{"sid": "/a/b", "lineRange": map[string]any{"startLine": 3, "endLine": 3}},
			"content":  "X",
			"priority": 0,
		},
	}

	out, err := tool.Execute(context.Background(), map[string]any{
		"intents":    intents,
		"targetFile": "doc.md",
	})
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["success"])

	data, _, err := h.ReadDocument(context.Background(), "/ws/doc.md")
	require.NoError(t, err)
	assert.Equal(t, "# A\n## B\nX\n## C\ny\n", string(data))
}

func TestRegisterAllRegistersBothTools(t *testing.T) {
	eng, _ := newTestEngine(t, "# A\n")
	reg := tools.NewRegistry()
	require.NoError(t, RegisterAll(reg, eng))
	assert.True(t, reg.Has("readMarkdownFile"))
	assert.True(t, reg.Has("executeMarkdownEdits"))
}
