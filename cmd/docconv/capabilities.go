// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/command"
	"github.com/pdiddy/docconv/internal/convert"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show which conversion engines are available",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		engines := convert.DefaultEngines(convert.EngineConfig{
			Runner:       command.NewOSRunner(logger),
			OfficeConfig: cfg.Office,
			RasterConfig: cfg.Raster,
			Log:          logger,
		})
		probe := convert.NewDispatcher(engines, logger).Probe()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(probe)
		}

		for _, c := range convert.AllCapabilities {
			st := probe[c]
			state := "missing"
			if st.Available {
				state = "ok"
			}
			fmt.Fprintf(os.Stdout, "%-22s %-8s %s\n", c, state, st.Engine)
		}
		if missing := probe.Missing(); len(missing) > 0 {
			fmt.Fprintln(os.Stdout)
			for _, w := range missing {
				fmt.Fprintf(os.Stdout, "WARNING: %s\n", w)
			}
		}
		return nil
	},
}

func init() {
	capabilitiesCmd.Flags().Bool("json", false, "output the probe as JSON")

	rootCmd.AddCommand(capabilitiesCmd)
}
