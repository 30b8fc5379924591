package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"structdoc/internal/engine"
	"structdoc/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a Markdown file and print its table of contents on every change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		dir := filepath.Dir(target)
		if dir == "" {
			dir = "."
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "watching %s (ctrl-c to stop)\n", target)
		printWatchToC(cmd, target)

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != filepath.Clean(target) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logging.CLIInfo("watch: %s changed (%s)", target, ev.Op)
				printWatchToC(cmd, target)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			}
		}
	},
}

func printWatchToC(cmd *cobra.Command, target string) {
	result := eng.ReadMarkdownFile(context.Background(), target, engine.ModeToC, nil)
	if !result.Success {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", result.ErrorKind, result.ErrorMessage)
		return
	}
	for _, n := range result.ToC {
		printTocNode(cmd, n, 0)
	}
}
