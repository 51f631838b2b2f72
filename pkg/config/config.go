// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/experiments"
	"carvel.dev/chartnote/pkg/hover"
	"carvel.dev/chartnote/pkg/values"
	"github.com/BurntSushi/toml"
	goversion "github.com/hashicorp/go-version"
)

// Duration decodes strings such as "100ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if dur < 0 {
		return fmt.Errorf("Expected duration '%s' to not be negative", text)
	}
	d.Duration = dur
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

type Config struct {
	OpenDelay      Duration `toml:"open_delay"`
	CloseDelay     Duration `toml:"close_delay"`
	ValuesFormat   string   `toml:"values_format"`
	RequireVersion string   `toml:"require_version"`
	Experiments    []string `toml:"experiments"`
}

func NewDefaultConfig() Config {
	return Config{
		OpenDelay:    Duration{hover.DefaultOpenDelay},
		CloseDelay:   Duration{hover.DefaultCloseDelay},
		ValuesFormat: string(values.FormatJSON),
	}
}

// LoadFile reads a TOML config file on top of the defaults.
// Unknown keys are errors.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("Reading config file '%s': %s", path, err)
	}

	conf, err := Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("Loading config file '%s': %s", path, err)
	}
	return conf, nil
}

func Load(data []byte) (Config, error) {
	conf := NewDefaultConfig()

	md, err := toml.Decode(string(data), &conf)
	if err != nil {
		return Config{}, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("Unknown keys: %s", strings.Join(keys, ", "))
	}

	return conf, nil
}

// Validate checks values and that currentVersion satisfies
// require_version. Development builds (non-semver versions) always pass.
func (c Config) Validate(currentVersion string) error {
	if _, err := values.ParseFormat(c.ValuesFormat); err != nil {
		return err
	}

	for _, name := range c.Experiments {
		if !experiments.IsKnown(name) {
			return fmt.Errorf("Unknown experiment '%s'", name)
		}
	}

	if c.RequireVersion == "" {
		return nil
	}

	constraints, err := goversion.NewConstraint(c.RequireVersion)
	if err != nil {
		return fmt.Errorf("Parsing require_version '%s': %s", c.RequireVersion, err)
	}

	current, err := goversion.NewVersion(currentVersion)
	if err != nil {
		return nil
	}

	if !constraints.Check(current) {
		return fmt.Errorf("Expected chartnote version %s to satisfy '%s'", currentVersion, c.RequireVersion)
	}
	return nil
}

// Apply enables configured experiments process wide.
func (c Config) Apply() {
	if len(c.Experiments) > 0 {
		experiments.Enable(c.Experiments...)
	}
}

func (c Config) HoverOpts() hover.Opts {
	return hover.Opts{OpenDelay: c.OpenDelay.Duration, CloseDelay: c.CloseDelay.Duration}
}

// AnnotateOpts reads experiments, so Apply should be called first.
func (c Config) AnnotateOpts() (annotate.Opts, error) {
	format, err := values.ParseFormat(c.ValuesFormat)
	if err != nil {
		return annotate.Opts{}, err
	}

	opts := annotate.NewOptsFromExperiments()
	opts.Render = values.RenderOpts{Format: format}
	return opts, nil
}
