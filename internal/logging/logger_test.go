package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeProductionModeIsNoOp(t *testing.T) {
	ws := t.TempDir()
	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsDebugMode() {
		t.Fatal("expected debug mode disabled with no config file")
	}
	logsDir := filepath.Join(ws, ".structdoc", "logs")
	if _, err := os.Stat(logsDir); !os.IsNotExist(err) {
		t.Fatalf("expected no logs directory in production mode, stat err=%v", err)
	}
}

func TestInitializeDebugModeCreatesLogsDir(t *testing.T) {
	ws := t.TempDir()
	cfgDir := filepath.Join(ws, ".structdoc")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	cfgYAML := "logging:\n  debug_mode: true\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode enabled")
	}

	logger := Get(CategoryEngine)
	logger.Info("hello %s", "world")
	logger.Close()

	logsDir := filepath.Join(ws, ".structdoc", "logs")
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one log file")
	}
}

func TestInitializeDebugModeOpensAuditLog(t *testing.T) {
	CloseAll() // reset any audit file left open by an earlier Initialize
	ws := t.TempDir()
	cfgDir := filepath.Join(ws, ".structdoc")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	cfgYAML := "logging:\n  debug_mode: true\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	AuditForBatch("batch-1").BatchStart("doc.md", 1)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(ws, ".structdoc", "logs"))
	if err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	var auditPath string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_audit.log") {
			auditPath = filepath.Join(ws, ".structdoc", "logs", e.Name())
		}
	}
	if auditPath == "" {
		t.Fatalf("expected an audit log file, found %v", entries)
	}
	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected the audit log to contain the batch_start event")
	}
}

func TestIsCategoryEnabledRespectsPerCategoryToggle(t *testing.T) {
	ws := t.TempDir()
	cfgDir := filepath.Join(ws, ".structdoc")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	cfgYAML := "logging:\n  debug_mode: true\n  categories:\n    parser: false\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Initialize(ws); err != nil {
		t.Fatal(err)
	}
	if IsCategoryEnabled(CategoryParser) {
		t.Fatal("expected parser category disabled")
	}
	if !IsCategoryEnabled(CategoryEngine) {
		t.Fatal("expected engine category enabled by default")
	}
}
