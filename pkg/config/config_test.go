// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"carvel.dev/chartnote/pkg/config"
	"carvel.dev/chartnote/pkg/experiments"
	"carvel.dev/chartnote/pkg/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, conf.OpenDelay.Duration)
	assert.Equal(t, 50*time.Millisecond, conf.CloseDelay.Duration)
	assert.Equal(t, "json", conf.ValuesFormat)
	require.NoError(t, conf.Validate("develop"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartnote.toml")
	data := `
open_delay = "250ms"
close_delay = "1s"
values_format = "yaml"
require_version = ">= 0.3.0, < 1.0.0"
experiments = ["root-scope"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	conf, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, conf.HoverOpts().OpenDelay)
	assert.Equal(t, time.Second, conf.HoverOpts().CloseDelay)
	assert.Equal(t, []string{"root-scope"}, conf.Experiments)

	require.NoError(t, conf.Validate("0.4.1"))

	err = conf.Validate("1.2.0")
	require.EqualError(t, err, "Expected chartnote version 1.2.0 to satisfy '>= 0.3.0, < 1.0.0'")

	// development builds are not checked
	require.NoError(t, conf.Validate("develop"))
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load([]byte(`open_delay = "soon"`))
	require.Error(t, err)

	_, err = config.Load([]byte(`open_delay = "-1s"`))
	require.Error(t, err)

	_, err = config.Load([]byte("open_dely = \"1s\"\n[extra]\nkey = 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown keys: ")
	assert.Contains(t, err.Error(), "extra.key")
	assert.Contains(t, err.Error(), "open_dely")

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reading config file")
}

func TestValidate(t *testing.T) {
	conf := config.NewDefaultConfig()

	conf.ValuesFormat = "xml"
	require.Error(t, conf.Validate("develop"))

	conf = config.NewDefaultConfig()
	conf.Experiments = []string{"warp-drive"}
	require.EqualError(t, conf.Validate("develop"), "Unknown experiment 'warp-drive'")

	conf = config.NewDefaultConfig()
	conf.RequireVersion = "not a constraint"
	require.Error(t, conf.Validate("1.0.0"))
}

func TestApplyAndAnnotateOpts(t *testing.T) {
	experiments.ResetForTesting()
	os.Setenv(experiments.Env, "")
	defer func() {
		os.Unsetenv(experiments.Env)
		experiments.ResetForTesting()
	}()

	conf := config.NewDefaultConfig()
	conf.ValuesFormat = "yaml"
	conf.Experiments = []string{"paren-trim", "template-comments"}
	conf.Apply()

	opts, err := conf.AnnotateOpts()
	require.NoError(t, err)
	assert.Equal(t, values.FormatYAML, opts.Render.Format)
	assert.True(t, opts.Trim.ParenTrim)
	assert.True(t, opts.TemplateComments)
	assert.False(t, opts.Classifier.RootScope)
}
