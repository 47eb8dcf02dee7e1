// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or folders...]",
	Short: "Convert queued files to one output format",
	Long: `Convert queues the given files (folders contribute every file below them)
and converts each one to --format. Each file is handled independently: a
failure is reported and the batch continues.

Outputs go to --output-dir, in a folder named after each input unless
--subfolder=false. Multi-page PDFs rasterize to name-001.png, name-002.png.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("format", "f", "", "output format: pdf, jpg, png, webp, tiff, bmp, txt (default pdf)")
	convertCmd.Flags().Int("dpi", 0, "PDF rasterization resolution, 72..600 (default 200)")
	convertCmd.Flags().Int("quality", 0, "jpg/webp quality, 40..100 (default 90)")
	convertCmd.Flags().Bool("subfolder", true, "write each file's outputs to a folder named after it")
	convertCmd.Flags().String("report", "", "write a YAML report of the batch to this file")
	convertCmd.Flags().StringSlice("exclude", nil, "queued paths to drop again (repeatable)")
	convertCmd.Flags().Bool("dry-run", false, "show the route for each file without converting")

	viper.BindPFlag("output.format", convertCmd.Flags().Lookup("format"))
	viper.BindPFlag("output.dpi", convertCmd.Flags().Lookup("dpi"))
	viper.BindPFlag("output.quality", convertCmd.Flags().Lookup("quality"))
	viper.BindPFlag("output.subfolder", convertCmd.Flags().Lookup("subfolder"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files or folders to convert")
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

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		printPlan(s.Plan())
		return nil
	}

	result, err := s.ConvertAll(context.Background())
	if err != nil {
		return err
	}

	reportPath, _ := cmd.Flags().GetString("report")
	if reportPath != "" {
		if err := convert.WriteReport(reportPath, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Report written to %s\n", reportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed conversion", result.Failed, result.Total())
	}
	return nil
}

func printPlan(plan []convert.PlanEntry) {
	for _, e := range plan {
		if e.Error != "" {
			fmt.Fprintf(os.Stdout, "SKIP %s: %s\n", e.Input, e.Error)
			continue
		}
		fmt.Fprintf(os.Stdout, "%-14s %s -> %s\n", e.Route, e.Input, e.OutputDir)
	}
}
