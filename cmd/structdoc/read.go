package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"structdoc/internal/engine"
)

var readParseMode string

var readCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Read a Markdown file's structure and/or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := eng.ReadMarkdownFile(context.Background(), args[0], engine.ReadMode(readParseMode), nil)
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		if !result.Success {
			return fmt.Errorf("%s", result.ErrorMessage)
		}
		return nil
	},
}

func init() {
	readCmd.Flags().StringVar(&readParseMode, "mode", "toc", "One of content, structure, toc, full")
}
