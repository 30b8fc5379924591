package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var editBatchPath string

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Apply a batch of edit intents loaded from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if editBatchPath == "" {
			return fmt.Errorf("--batch is required")
		}
		raw, err := os.ReadFile(editBatchPath)
		if err != nil {
			return fmt.Errorf("read batch file: %w", err)
		}

		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			return fmt.Errorf("parse batch file: %w", err)
		}
		body["targetFile"] = args[0]

		toolResult, err := reg.Execute(context.Background(), "executeMarkdownEdits", body)
		if err != nil {
			return fmt.Errorf("execute batch: %w", err)
		}
		if !toolResult.IsSuccess() {
			return fmt.Errorf("tool execution failed: %w", toolResult.Error)
		}

		var result map[string]any
		if err := json.Unmarshal([]byte(toolResult.Result), &result); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), toolResult.Result)
			return nil
		}
		printEditResult(cmd, result)
		if success, _ := result["success"].(bool); !success {
			return fmt.Errorf("batch rejected")
		}
		return nil
	},
}

func printEditResult(cmd *cobra.Command, result map[string]any) {
	success, _ := result["success"].(bool)
	total, _ := result["totalIntents"].(float64)
	ok, _ := result["successfulIntents"].(float64)
	var millis float64
	if meta, _ := result["metadata"].(map[string]any); meta != nil {
		millis, _ = meta["executionMillis"].(float64)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "success=%v applied=%s/%s in %sms\n",
		success, humanize.Comma(int64(ok)), humanize.Comma(int64(total)), humanize.Comma(int64(millis)))
}

func init() {
	editCmd.Flags().StringVar(&editBatchPath, "batch", "", "Path to a JSON file with an \"intents\" array")
}
