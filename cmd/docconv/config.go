// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/command"
	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/history"
	"github.com/pdiddy/docconv/pkg/types"
)

const (
	defaultOutputDir   = "~/Conversions"
	defaultHistoryPath = "~/.local/share/docconv/history.db"
	defaultToolTimeout = 2 * time.Minute
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", defaultOutputDir)
	v.SetDefault("output.format", string(types.FormatPDF))
	v.SetDefault("output.dpi", types.DefaultDPI)
	v.SetDefault("output.quality", types.DefaultQuality)
	v.SetDefault("output.subfolder", true)
	v.SetDefault("merge.name", convert.DefaultMergeName)
	v.SetDefault("office.timeout", defaultToolTimeout)
	v.SetDefault("raster.timeout", defaultToolTimeout)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", defaultHistoryPath)
}

// loadConfig reads the merged configuration and expands home-relative
// paths.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.Output.Dir = expandHome(cfg.Output.Dir)
	cfg.History.Path = expandHome(cfg.History.Path)

	format, err := types.ParseFormat(string(cfg.Output.Format))
	if err != nil {
		return cfg, err
	}
	cfg.Output.Format = format
	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// newSession builds the dispatcher and session for cfg, warning once about
// every missing capability. The returned cleanup closes the journal. A
// journal that cannot be opened is logged and skipped.
func newSession(cfg types.Config) (*convert.Session, func()) {
	engines := convert.DefaultEngines(convert.EngineConfig{
		Runner:       command.NewOSRunner(logger),
		OfficeConfig: cfg.Office,
		RasterConfig: cfg.Raster,
		Log:          logger,
	})
	d := convert.NewDispatcher(engines, logger)
	for _, w := range d.Probe().Missing() {
		logger.Warn().Msg(w)
	}

	s := convert.NewSession(d, cfg.Output, os.Stdout, logger)
	s.MergeName = cfg.Merge.Name

	cleanup := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("conversion history disabled")
			return s, cleanup
		}
		s.SetJournal(store)
		cleanup = func() { store.Close() }
	}
	return s, cleanup
}
