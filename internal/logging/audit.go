package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType identifies the kind of batch-lifecycle event being recorded.
type AuditEventType string

const (
	// AuditBatchStart marks the beginning of a batch.
	AuditBatchStart AuditEventType = "batch_start"

	// AuditBatchCommit marks a successful atomic apply.
	AuditBatchCommit AuditEventType = "batch_commit"

	// AuditBatchRollback marks a batch-level failure; the document is
	// guaranteed unchanged.
	AuditBatchRollback AuditEventType = "batch_rollback"

	// AuditIntentFailed marks a single intent failing within a batch.
	AuditIntentFailed AuditEventType = "intent_failed"

	// AuditParseWarning marks a non-fatal parse warning (e.g. malformed
	// UTF-8 replaced with U+FFFD).
	AuditParseWarning AuditEventType = "parse_warning"

	// AuditToolInvoke marks an LLM-facing tool call into the engine.
	AuditToolInvoke AuditEventType = "tool_invoke"
)

// AuditEvent is one structured, JSON-line audit record.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`
	EventType  AuditEventType         `json:"event"`
	BatchID    string                 `json:"batch,omitempty"`
	DocPath    string                 `json:"doc,omitempty"`
	SID        string                 `json:"sid,omitempty"`
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// InitAudit opens the audit log for the current workspace. No-op unless
// debug mode is enabled.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		return nil
	}
	date := time.Now().Format("2006-01-02")
	path := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	auditFile = f
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// AuditLogger is a handle scoped to one batch correlation ID.
type AuditLogger struct {
	batchID string
}

// AuditForBatch scopes an audit logger to a batch ID (see internal/engine,
// which mints one UUID per call to executeMarkdownEdits).
func AuditForBatch(batchID string) *AuditLogger {
	return &AuditLogger{batchID: batchID}
}

// Log writes one audit event as a JSON line. No-op if the audit log isn't
// open (production mode).
func (a *AuditLogger) Log(event AuditEvent) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.BatchID == "" {
		event.BatchID = a.batchID
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile == nil {
		return
	}
	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// BatchStart logs the start of a batch against a document path.
func (a *AuditLogger) BatchStart(docPath string, intentCount int) {
	a.Log(AuditEvent{
		EventType: AuditBatchStart,
		DocPath:   docPath,
		Success:   true,
		Message:   fmt.Sprintf("batch started against %s (%d intents)", docPath, intentCount),
		Fields:    map[string]interface{}{"intent_count": intentCount},
	})
}

// BatchCommit logs a successfully applied batch.
func (a *AuditLogger) BatchCommit(docPath string, appliedCount int, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditBatchCommit,
		DocPath:    docPath,
		Success:    true,
		DurationMs: durationMs,
		Message:    fmt.Sprintf("batch committed: %d intents applied", appliedCount),
	})
}

// BatchRollback logs a batch-level failure. The document is guaranteed
// byte-identical to its pre-batch state.
func (a *AuditLogger) BatchRollback(docPath, rule string, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditBatchRollback,
		DocPath:    docPath,
		Success:    false,
		DurationMs: durationMs,
		Error:      rule,
		Message:    fmt.Sprintf("batch rolled back: %s", rule),
	})
}

// IntentFailed logs a single failed intent within a batch.
func (a *AuditLogger) IntentFailed(sid, errorKind, message string) {
	a.Log(AuditEvent{
		EventType: AuditIntentFailed,
		SID:       sid,
		Success:   false,
		Error:     errorKind,
		Message:   message,
	})
}

// ParseWarning logs a non-fatal parser warning.
func (a *AuditLogger) ParseWarning(docPath, message string) {
	a.Log(AuditEvent{
		EventType: AuditParseWarning,
		DocPath:   docPath,
		Success:   true,
		Message:   message,
	})
}

// ToolInvoke logs an LLM tool-call entry point into the engine.
func (a *AuditLogger) ToolInvoke(toolName, docPath string) {
	a.Log(AuditEvent{
		EventType: AuditToolInvoke,
		DocPath:   docPath,
		Success:   true,
		Message:   fmt.Sprintf("tool invoked: %s", toolName),
		Fields:    map[string]interface{}{"tool": toolName},
	})
}
