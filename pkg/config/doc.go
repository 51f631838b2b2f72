// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads the optional chartnote TOML config file:

	open_delay = "100ms"
	close_delay = "50ms"
	values_format = "json"        # or "yaml"
	require_version = ">= 0.1.0"
	experiments = ["root-scope"]
*/
package config
