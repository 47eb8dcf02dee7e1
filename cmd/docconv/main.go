// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docconv CLI. It queues files,
// converts them to one output format, and merges PDFs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in the root command's pre-run.
var logger = zerolog.Nop()

// rootCmd is the base command for the docconv CLI.
var rootCmd = &cobra.Command{
	Use:   "docconv",
	Short: "Convert documents, images, and PDFs, and merge PDFs",
	Long: `docconv converts a list of files to one output format. Office documents
and images become PDF, PDF pages become images, PDFs become plain text, and
images are re-encoded between raster formats. The merge command concatenates
PDFs in the order given.

Office conversion needs LibreOffice. PDF to image needs pdftoppm or mutool.
Missing tools are reported at startup and by the capabilities command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(verbose)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug().Str("file", f).Msg("using config file")
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docconv.yaml or ~/.config/docconv/docconv.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log engine commands and routing decisions")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "output base directory (default ~/Conversions)")

	viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docconv"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("DOCCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
