// Package markdown exposes the edit engine's two external operations,
// readMarkdownFile and executeMarkdownEdits, as tools.Tool
// values any LLM tool-calling loop can discover and invoke through
// internal/tools.Registry.
package markdown

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"structdoc/internal/edit"
	"structdoc/internal/engine"
	"structdoc/internal/logging"
	"structdoc/internal/tools"
)

// RegisterAll registers the read and edit tools with the given registry,
// bound to a single engine instance.
func RegisterAll(registry *tools.Registry, eng *engine.Engine) error {
	for _, t := range []*tools.Tool{ReadMarkdownFileTool(eng), ExecuteMarkdownEditsTool(eng)} {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// ReadMarkdownFileTool wraps engine.ReadMarkdownFile behind the
// readMarkdownFile request envelope.
func ReadMarkdownFileTool(eng *engine.Engine) *tools.Tool {
	return &tools.Tool{
		Name:        "readMarkdownFile",
		Description: "Read a Markdown file's structure and/or content, addressed by stable section identifiers (SIDs).",
		Category:    tools.CategoryRead,
		Priority:    80,
		Execute:     executeRead(eng),
		Schema: tools.ToolSchema{
			Required: []string{"path"},
			Properties: map[string]tools.Property{
				"path":      {Type: "string", Description: "Project-relative or absolute path to the Markdown file."},
				"parseMode": {Type: "string", Description: "One of content, structure, toc, full.", Enum: []any{"content", "structure", "toc", "full"}, Default: "toc"},
				"targets":   {Type: "array", Description: "Optional section/keyword targets to extract excerpts for.", Items: &tools.PropertyItems{Type: "object"}},
			},
		},
	}
}

// ExecuteMarkdownEditsTool wraps engine.ExecuteMarkdownEdits behind the
// executeMarkdownEdits request envelope.
func ExecuteMarkdownEditsTool(eng *engine.Engine) *tools.Tool {
	return &tools.Tool{
		Name:        "executeMarkdownEdits",
		Description: "Apply a batch of SID-targeted edit intents to a Markdown file as a single atomic transaction.",
		Category:    tools.CategoryEdit,
		Priority:    80,
		Execute:     executeEdit(eng),
		Schema: tools.ToolSchema{
			Required: []string{"intents", "targetFile"},
			Properties: map[string]tools.Property{
				"intents":    {Type: "array", Description: "Ordered batch of edit intents.", Items: &tools.PropertyItems{Type: "object"}},
				"targetFile": {Type: "string", Description: "Project-relative or absolute path to the Markdown file."},
			},
		},
	}
}

func executeRead(eng *engine.Engine) tools.ExecuteFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		logging.AuditForBatch("").ToolInvoke("readMarkdownFile", fmt.Sprint(args["path"]))

		var req rawReadRequest
		if err := mapstructure.Decode(args, &req); err != nil {
			return "", fmt.Errorf("decode read request: %w", err)
		}
		mode := engine.ModeToC
		if req.ParseMode != "" {
			mode = engine.ReadMode(req.ParseMode)
		}
		targets := lo.Map(req.Targets, func(t rawReadTarget, _ int) engine.ReadTarget {
			return engine.ReadTarget{
				Type:       engine.ReadTargetKind(t.Type),
				SID:        t.SID,
				Query:      t.Query,
				MaxResults: t.MaxResults,
			}
		})

		result := eng.ReadMarkdownFile(ctx, req.Path, mode, targets)
		data, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("encode read result: %w", err)
		}
		return string(data), nil
	}
}

func executeEdit(eng *engine.Engine) tools.ExecuteFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		logging.AuditForBatch("").ToolInvoke("executeMarkdownEdits", fmt.Sprint(args["targetFile"]))

		var req rawEditRequest
		if err := mapstructure.Decode(args, &req); err != nil {
			return "", fmt.Errorf("decode edit request: %w", err)
		}

		intents := lo.Map(req.Intents, func(ri rawIntent, _ int) edit.Intent {
			return ri.toIntent()
		})

		result := eng.ExecuteMarkdownEdits(ctx, intents, req.TargetFile)
		data, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("encode batch result: %w", err)
		}
		return string(data), nil
	}
}
