// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion and merge results",
	Long: `History lists results journaled by earlier convert and merge runs,
newest first. Journaling is controlled by history.enabled and history.path.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum entries (0 = 50)")
	historyCmd.Flags().Bool("failed", false, "show failed entries only")
	historyCmd.Flags().String("batch", "", "show entries of one batch ID")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.History.Path); err != nil {
		fmt.Println("No history recorded.")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	failed, _ := cmd.Flags().GetBool("failed")
	batch, _ := cmd.Flags().GetString("batch")

	entries, err := store.Recent(context.Background(), history.Query{
		Limit:      limit,
		FailedOnly: failed,
		BatchID:    batch,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(entries, jsonOutput)
}

func formatHistoryOutput(entries []history.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-7s  %-6s  %-4s  %-40s  %s\n",
		"Time", "Kind", "Format", "OK", "Input", "Result")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, e := range entries {
		input := strings.ReplaceAll(e.Input, "\n", ", ")
		if len(input) > 40 {
			input = "..." + input[len(input)-37:]
		}
		ok := "no"
		detail := e.Error
		if e.OK {
			ok = "yes"
			detail = strings.Join(e.Outputs, ", ")
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-7s  %-6s  %-4s  %-40s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Format, ok, input, detail)
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}
