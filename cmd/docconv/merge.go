// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [pdfs or folders...]",
	Short: "Merge PDFs into one file, in the order given",
	Long: `Merge concatenates every PDF among the arguments, in argument order, into
one file in --output-dir. Non-PDF and missing paths are skipped; at least
two PDFs are required. The name gets a .pdf suffix when it has none.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringSlice("exclude", nil, "queued paths to leave out of the merge (repeatable)")
	mergeCmd.Flags().StringP("name", "n", "", "output file name (default merged.pdf)")

	viper.BindPFlag("merge.name", mergeCmd.Flags().Lookup("name"))

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide the PDFs to merge")
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	s, cleanup := newSession(cfg)
	defer cleanup()

	if _, err := s.Add(args...); err != nil {
		return err
	}
	excluded, _ := cmd.Flags().GetStringSlice("exclude")
	s.Remove(excluded...)
	_, err = s.Merge(context.Background())
	return err
}
