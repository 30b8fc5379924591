// Command structdoc is a terminal control panel for the edit engine: a
// thin Cobra CLI over the same readMarkdownFile / executeMarkdownEdits
// operations internal/tools/markdown exposes to an LLM tool-calling loop.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"structdoc/internal/config"
	"structdoc/internal/engine"
	"structdoc/internal/host"
	"structdoc/internal/logging"
	"structdoc/internal/tools"
	toolsmd "structdoc/internal/tools/markdown"
)

var (
	verbose   bool
	workspace string

	logger *zap.Logger
	eng    *engine.Engine
	reg    *tools.Registry
)

var rootCmd = &cobra.Command{
	Use:   "structdoc",
	Short: "Structure-aware Markdown reader and editor",
	Long: `structdoc parses a Markdown document into a stable section tree and
applies batches of SID-targeted edits as single atomic transactions.

It is meant to be driven by a tool-calling LLM through internal/tools, but
every operation is also reachable from this terminal for manual use.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.TimeKey = ""
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		} else if abs, aerr := filepath.Abs(ws); aerr == nil {
			ws = abs
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		cfg, err := config.Load(filepath.Join(ws, ".structdoc", "config.yaml"), ws)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		eng = engine.New(host.NewOSHost(), cfg)
		reg = tools.NewRegistry()
		if err := toolsmd.RegisterAll(reg, eng); err != nil {
			return fmt.Errorf("register tools: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(tocCmd, readCmd, editCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
