// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// fileConfig mirrors the persistent connection flags so routine settings can
// live in a config file instead of every invocation.
type fileConfig struct {
	Device      string `toml:"device"`
	Address     uint8  `toml:"address"`
	Port        string `toml:"port"`
	Baud        int    `toml:"baud"`
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	NoSSLVerify bool   `toml:"no_ssl_verify"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "atecctl", "atecctl.toml")
}

// applyConfigFile loads the TOML config file, if any, and fills in settings
// the user did not override on the command line. An explicitly named file
// must exist; the default path is optional.
func applyConfigFile(cmd *cobra.Command) error {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return nil
		}
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("loaded config file")

	flags := cmd.Flags()
	if cfg.Device != "" && !flags.Changed("device") {
		i2cDevice = cfg.Device
	}
	if cfg.Address != 0 && !flags.Changed("address") {
		i2cAddress = cfg.Address
	}
	if cfg.Port != "" && !flags.Changed("port") {
		portName = cfg.Port
	}
	if cfg.Baud != 0 && !flags.Changed("baud") {
		baudRate = cfg.Baud
	}
	if cfg.URL != "" && !flags.Changed("url") {
		wsURL = cfg.URL
	}
	if cfg.Username != "" && !flags.Changed("username") {
		wsUsername = cfg.Username
	}
	if cfg.NoSSLVerify && !flags.Changed("no-ssl-verify") {
		wsNoSSLVerify = true
	}
	return nil
}
