// Package engine is the public entry point for one edit batch: it reads
// the document, parses and analyzes it, validates and plans the batch,
// and applies it atomically. It also owns the read-only
// readMarkdownFile path.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"structdoc/internal/config"
	"structdoc/internal/edit"
	"structdoc/internal/host"
	"structdoc/internal/logging"
	"structdoc/internal/markdown"
	"structdoc/internal/structure"
)

// Engine is the facade's runtime: a filesystem collaborator plus the
// workspace configuration path resolution depends on.
type Engine struct {
	Host   host.Host
	Config *config.Config
}

// New builds an Engine over the given host and configuration.
func New(h host.Host, cfg *config.Config) *Engine {
	return &Engine{Host: h, Config: cfg}
}

// ExecuteMarkdownEdits runs one edit batch: it reads the document once,
// validates and plans the batch, and applies it
// atomically. The facade commits all-or-nothing: if any intent fails
// validation or planning, no bytes are written and every intent is
// reported failed.
func (e *Engine) ExecuteMarkdownEdits(ctx context.Context, intents []edit.Intent, targetFile string) *edit.Result {
	total := len(intents)
	start := time.Now()
	batchID := uuid.NewString()
	audit := logging.AuditForBatch(batchID)
	audit.BatchStart(targetFile, total)

	finish := func(r *edit.Result) *edit.Result {
		r.Metadata.BatchID = batchID
		r.Metadata.ExecutionMillis = time.Since(start).Milliseconds()
		r.Metadata.Timestamp = start.UTC().Format(time.RFC3339Nano)
		if r.Success {
			audit.BatchCommit(targetFile, r.SuccessfulIntents, r.Metadata.ExecutionMillis)
		} else {
			audit.BatchRollback(targetFile, r.Metadata.ConflictRule, r.Metadata.ExecutionMillis)
		}
		return r
	}

	path, err := resolvePath(e.Config, targetFile)
	if err != nil {
		return finish(batchRejected(intents, err.(*PathError).Kind, err.Error()))
	}

	if cancelled(ctx) {
		return finish(batchRejected(intents, edit.ErrCancelled, "cancelled before read"))
	}

	raw, _, err := e.Host.ReadDocument(ctx, path)
	if err != nil {
		return finish(batchRejected(intents, edit.ErrNoWorkspace, "failed to read document: "+err.Error()))
	}

	if cancelled(ctx) {
		return finish(batchRejected(intents, edit.ErrCancelled, "cancelled before parse"))
	}

	doc, root, warnings, err := markdown.Parse(raw)
	if err != nil {
		return finish(batchRejected(intents, edit.ErrParseWarning, "failed to parse document: "+err.Error()))
	}
	idx := structure.Analyze(doc, root)

	if cancelled(ctx) {
		return finish(batchRejected(intents, edit.ErrCancelled, "cancelled before validation"))
	}

	for i := range intents {
		intents[i] = withSeq(intents[i], i)
	}

	var schemaFailed []edit.FailedIntent
	var valid []edit.Intent
	for _, intent := range intents {
		intent := intent
		if f := edit.ValidateSchema(&intent); f != nil {
			schemaFailed = append(schemaFailed, *f)
			continue
		}
		valid = append(valid, intent)
	}

	if rejection := edit.ValidateBatchSemantics(valid); rejection != nil {
		return finish(&edit.Result{
			Success:      false,
			TotalIntents: total,
			FailedIntents: allFailedWithRule(intents, schemaFailed, rejection.Rule,
				"split into two tool calls: delete first, then recreate"),
			Warnings: warningStrings(warnings),
			Metadata: edit.Metadata{ConflictRule: string(rejection.Rule)},
		})
	}

	if cancelled(ctx) {
		return finish(batchRejected(intents, edit.ErrCancelled, "cancelled before planning"))
	}

	ops, planFailed, batchFailure := edit.Plan(valid, idx, doc, e.Config.Matching.FuzzyThreshold)
	if batchFailure != nil {
		return finish(&edit.Result{
			Success:       false,
			TotalIntents:  total,
			FailedIntents: allFailedWithRule(intents, schemaFailed, batchFailure.Rule, "remove the overlapping intent and resubmit"),
			Warnings:      warningStrings(warnings),
			Metadata:      edit.Metadata{ConflictRule: string(batchFailure.Rule)},
		})
	}

	if len(schemaFailed) > 0 || len(planFailed) > 0 {
		// Full-batch atomicity: any individual failure means nothing gets
		// written. Intents that did resolve are reported as collateral.
		failed := append([]edit.FailedIntent{}, schemaFailed...)
		failed = append(failed, planFailed...)
		resolvedSeqs := map[int]bool{}
		for i := range ops {
			resolvedSeqs[ops[i].Source.Seq()] = true
		}
		for i := range valid {
			if resolvedSeqs[valid[i].Seq()] {
				failed = append(failed, edit.FailedIntent{
					Intent:       valid[i],
					ErrorKind:    edit.ErrBatchAborted,
					ErrorMessage: "batch aborted because another intent failed",
					Suggestion:   "resubmit only the intents listed in failedIntents with errorKind other than BATCH_ABORTED",
				})
			}
		}
		return finish(&edit.Result{
			Success:       false,
			TotalIntents:  total,
			FailedIntents: failed,
			Warnings:      warningStrings(warnings),
			Metadata:      edit.Metadata{DocumentUTF16Length: doc.UTF16().ByteToUTF16(len(doc.Bytes))},
		})
	}

	if cancelled(ctx) {
		return finish(batchRejected(intents, edit.ErrCancelled, "cancelled before apply"))
	}

	applied := make([]edit.Intent, 0, len(ops))
	for _, op := range ops {
		applied = append(applied, *op.Source)
	}

	if dryRun(intents) {
		return finish(&edit.Result{
			Success:           true,
			TotalIntents:      total,
			SuccessfulIntents: len(applied),
			AppliedIntents:    applied,
			Warnings:          append(warningStrings(warnings), "validate-only batch: no bytes were written"),
			Metadata: edit.Metadata{
				DocumentUTF16Length: doc.UTF16().ByteToUTF16(len(doc.Bytes)),
			},
		})
	}

	newContent := edit.Apply(doc.Bytes, ops)
	if err := e.Host.ApplyEdits(ctx, path, newContent); err != nil {
		failed := make([]edit.FailedIntent, 0, total)
		for _, intent := range intents {
			failed = append(failed, edit.FailedIntent{
				Intent:       intent,
				ErrorKind:    edit.ErrApplyEditFailed,
				ErrorMessage: "host refused to apply the batch: " + err.Error(),
				Suggestion:   "retry the batch once the host is available",
			})
		}
		return finish(&edit.Result{
			Success:       false,
			TotalIntents:  total,
			FailedIntents: failed,
			Warnings:      warningStrings(warnings),
			Metadata:      edit.Metadata{ConflictRule: string(edit.ErrApplyEditFailed)},
		})
	}

	logging.EngineInfo("batch applied to %s: %d/%d intents", path, len(applied), total)

	return finish(&edit.Result{
		Success:           true,
		TotalIntents:      total,
		SuccessfulIntents: len(applied),
		AppliedIntents:    applied,
		Warnings:          warningStrings(warnings),
		Metadata: edit.Metadata{
			DocumentUTF16Length: doc.UTF16().ByteToUTF16(len(newContent)),
		},
	})
}

func withSeq(i edit.Intent, seq int) edit.Intent {
	return i.WithSeq(seq)
}

// cancelled reports whether the caller's deadline or cancellation fired.
// Checked at stage boundaries only; parsing, analysis, validation, and
// planning themselves run to completion without yielding.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// dryRun reports whether any intent asked for validateOnly. A single
// validate-only intent makes the whole batch a dry run: a partial write of
// the non-dry intents would break the atomicity contract.
func dryRun(intents []edit.Intent) bool {
	for _, intent := range intents {
		if intent.ValidateOnly {
			return true
		}
	}
	return false
}

func warningStrings(ws []markdown.Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Message)
	}
	return out
}

func batchRejected(intents []edit.Intent, kind edit.ErrorKind, message string) *edit.Result {
	failed := make([]edit.FailedIntent, 0, len(intents))
	for _, intent := range intents {
		failed = append(failed, edit.FailedIntent{
			Intent:       intent,
			ErrorKind:    kind,
			ErrorMessage: message,
		})
	}
	return &edit.Result{
		Success:       false,
		TotalIntents:  len(intents),
		FailedIntents: failed,
		Metadata:      edit.Metadata{ConflictRule: string(kind)},
	}
}

func allFailedWithRule(all []edit.Intent, existing []edit.FailedIntent, rule edit.ErrorKind, suggestion string) []edit.FailedIntent {
	already := map[int]bool{}
	for _, f := range existing {
		already[f.Intent.Seq()] = true
	}
	out := append([]edit.FailedIntent{}, existing...)
	for _, intent := range all {
		if already[intent.Seq()] {
			continue
		}
		out = append(out, edit.FailedIntent{
			Intent:       intent,
			ErrorKind:    rule,
			ErrorMessage: "batch rejected: " + string(rule),
			Suggestion:   suggestion,
		})
	}
	return out
}
