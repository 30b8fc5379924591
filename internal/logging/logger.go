// Package logging provides config-driven categorized file-based logging for
// structdoc. Logs are written to .structdoc/logs/ with one file per category.
// Logging is gated by debug_mode in .structdoc/config.yaml - when false, no
// logs are written and every Logger call is a silent no-op.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category represents a log category/subsystem of the edit engine.
type Category string

const (
	// CategoryParser covers Markdown parsing activity.
	CategoryParser Category = "parser"

	// CategoryStructure covers structure analysis: section tree, SIDs.
	CategoryStructure Category = "structure"

	// CategoryMatch covers content-match resolution.
	CategoryMatch Category = "match"

	// CategoryValidate covers intent and batch validation.
	CategoryValidate Category = "validate"

	// CategoryPlan covers edit-operation planning.
	CategoryPlan Category = "plan"

	// CategoryApply covers transaction commits.
	CategoryApply Category = "apply"

	// CategoryEngine covers engine facade orchestration.
	CategoryEngine Category = "engine"

	// CategoryTools covers the LLM-facing tool wrappers.
	CategoryTools Category = "tools"

	// CategoryCLI covers the cmd/structdoc control panel.
	CategoryCLI Category = "cli"
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig to avoid
// circular imports between logging and config.
type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// StructuredLogEntry is the JSON shape written when JSONFormat is enabled.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output. A zero-value
// Logger (no file) is a safe no-op, so Get() never returns nil.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers      = make(map[Category]*Logger)
	loggersMu    sync.RWMutex
	logsDir      string
	workspace    string
	cfg          loggingConfig
	configLoaded bool
	configMu     sync.RWMutex
	logLevel     int
)

// Log levels, lowest first.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory for a workspace and loads its
// config. Safe to call more than once; production mode (debug_mode=false,
// the default with no config file) makes every subsequent call a no-op.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}
	workspace = ws
	logsDir = filepath.Join(workspace, ".structdoc", "logs")

	if err := loadConfigLocked(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not load config: %v\n", err)
		cfg.DebugMode = false
	}
	if !cfg.DebugMode {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return err
	}
	return InitAudit()
}

func loadConfigLocked() error {
	configMu.Lock()
	defer configMu.Unlock()

	path := filepath.Join(workspace, ".structdoc", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.DebugMode = false
			configLoaded = true
			return nil
		}
		return err
	}

	// Only the logging subset is decoded here so this package never
	// imports config, which would otherwise import logging back.
	var cf struct {
		Logging loggingConfig `yaml:"logging"`
	}
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("parse logging config: %w", err)
	}
	cfg = cf.Logging
	configLoaded = true

	switch cfg.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	return nil
}

// ReloadConfig re-reads the config file from disk.
func ReloadConfig() error {
	return loadConfigLocked()
}

// IsDebugMode reports whether logging is globally enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled reports whether a category should log.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	if !cfg.DebugMode {
		return false
	}
	if cfg.Categories == nil {
		return true
	}
	enabled, exists := cfg.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or lazily creates) the logger for a category. Returns a
// harmless no-op logger when the category or debug mode is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) emit(level string, levelNum int, format string, args ...interface{}) {
	if l.logger == nil || levelNum < logLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if cfg.JSONFormat {
		entry := StructuredLogEntry{Timestamp: time.Now().UnixMilli(), Category: string(l.category), Level: level, Message: msg}
		if data, err := json.Marshal(entry); err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s", level, msg)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) { l.emit("DEBUG", LevelDebug, format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) { l.emit("INFO", LevelInfo, format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) { l.emit("WARN", LevelWarn, format, args...) }

// Error logs at error level, always if the logger is active.
func (l *Logger) Error(format string, args ...interface{}) { l.emit("ERROR", LevelError, format, args...) }

// Close flushes and closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Category-scoped convenience functions for call sites that don't want to
// hold a *Logger.

func ParserDebug(format string, args ...interface{}) { Get(CategoryParser).Debug(format, args...) }
func ParserWarn(format string, args ...interface{})  { Get(CategoryParser).Warn(format, args...) }

func StructureDebug(format string, args ...interface{}) { Get(CategoryStructure).Debug(format, args...) }

func MatchDebug(format string, args ...interface{}) { Get(CategoryMatch).Debug(format, args...) }

func ValidateWarn(format string, args ...interface{}) { Get(CategoryValidate).Warn(format, args...) }

func PlanDebug(format string, args ...interface{}) { Get(CategoryPlan).Debug(format, args...) }
func PlanWarn(format string, args ...interface{})  { Get(CategoryPlan).Warn(format, args...) }

func ApplyDebug(format string, args ...interface{}) { Get(CategoryApply).Debug(format, args...) }
func ApplyError(format string, args ...interface{}) { Get(CategoryApply).Error(format, args...) }

func EngineInfo(format string, args ...interface{})  { Get(CategoryEngine).Info(format, args...) }
func EngineError(format string, args ...interface{}) { Get(CategoryEngine).Error(format, args...) }

func ToolsDebug(format string, args ...interface{}) { Get(CategoryTools).Debug(format, args...) }

func CLIInfo(format string, args ...interface{}) { Get(CategoryCLI).Info(format, args...) }

// CloseAll flushes and closes every open category logger and the audit
// log. Called once at CLI shutdown (cmd/structdoc's PersistentPostRun).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
	CloseAudit()
}
