package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
	"github.com/spf13/cobra"
)

// fileConfig holds defaults read from the config file. Flags given on the
// command line always win; pointer fields distinguish "unset" from "false".
type fileConfig struct {
	browser    string
	format     string
	unique     *bool
	fillTitles *bool
}

// loadConfig reads the ini config. A missing file at the default location is
// fine; a --config path that cannot be read is an error.
func loadConfig(path string) (fileConfig, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return fileConfig{}, nil
		}
	}

	cfg, err := ini.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("freshtabs: loading config: %w", err)
	}

	sec := cfg.Section("")
	out := fileConfig{
		browser: sec.Key("browser").String(),
		format:  sec.Key("format").String(),
	}
	for _, key := range []struct {
		name string
		dst  **bool
	}{
		{"unique", &out.unique},
		{"fill-titles", &out.fillTitles},
	} {
		if !sec.HasKey(key.name) {
			continue
		}
		v, err := sec.Key(key.name).Bool()
		if err != nil {
			return fileConfig{}, fmt.Errorf("freshtabs: config key %s: %w", key.name, err)
		}
		*key.dst = &v
	}
	return out, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "freshtabs", "config.ini")
}

// applyConfig fills in flag values the user did not set explicitly. The
// configured browser only applies when no --path was given, so a config file
// cannot turn an explicit file read into a conflict.
func applyConfig(cmd *cobra.Command, cfg fileConfig) {
	flags := cmd.Flags()
	if cfg.browser != "" && pathFlag == "" && !flags.Changed("browser") {
		browserFlag = cfg.browser
	}
	if cfg.format != "" && !flags.Changed("format") {
		formatFlag = cfg.format
	}
	if cfg.unique != nil && !flags.Changed("unique") {
		uniqueFlag = *cfg.unique
	}
	if cfg.fillTitles != nil && !flags.Changed("fill-titles") {
		fillTitles = *cfg.fillTitles
	}
}
