// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"os"

	"carvel.dev/chartnote/pkg/config"
	"carvel.dev/chartnote/pkg/version"
	"github.com/spf13/cobra"
)

// ConfigEnv names a config file used when --config is not given.
const ConfigEnv = "CHARTNOTE_CONFIG"

type ConfigFlags struct {
	Path string
}

func (s *ConfigFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.Path, "config", "", "Path to TOML config file (defaults to $"+ConfigEnv+")")
}

// Load reads, validates and applies the config.
func (s *ConfigFlags) Load() (config.Config, error) {
	path := s.Path
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	conf := config.NewDefaultConfig()

	if path != "" {
		var err error
		conf, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	err := conf.Validate(version.Version)
	if err != nil {
		return config.Config{}, err
	}

	conf.Apply()

	return conf, nil
}
