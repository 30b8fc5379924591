package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"structdoc/internal/engine"
	"structdoc/internal/structure"
)

var tocCmd = &cobra.Command{
	Use:   "toc <file>",
	Short: "Print the trimmed table of contents for a Markdown file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := eng.ReadMarkdownFile(context.Background(), args[0], engine.ModeToC, nil)
		if !result.Success {
			return fmt.Errorf("%s: %s", result.ErrorKind, result.ErrorMessage)
		}
		for _, n := range result.ToC {
			printTocNode(cmd, n, 0)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s sections, document length %s UTF-16 units\n",
			humanize.Comma(int64(countTocNodes(result.ToC))),
			humanize.Comma(int64(result.Metadata.DocumentUTF16Length)))
		return nil
	},
}

func printTocNode(cmd *cobra.Command, n *structure.TrimmedToCNode, depth int) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s  (%s, %s chars)\n",
		strings.Repeat("  ", depth), n.DisplayId, n.Title, n.SID, humanize.Comma(int64(n.CharacterCount)))
	for _, c := range n.Children {
		printTocNode(cmd, c, depth+1)
	}
}

func countTocNodes(nodes []*structure.TrimmedToCNode) int {
	count := len(nodes)
	for _, n := range nodes {
		count += countTocNodes(n.Children)
	}
	return count
}
