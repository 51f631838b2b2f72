// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package experiments

import (
	"os"
	"sort"
	"strings"
)

/*
Registering a New Experiment

1. add a constant below and include it in the known list

2. implement a getter on this package `Is<experiment-name>Enabled()`

3. circuit-break functionality behind that check:

    if experiments.Is<experiment-name>Enabled() {
        ...
    }

4. in tests, enable experiment(s) by setting the environment variable:

    experiments.ResetForTesting()
    os.Setenv(experiments.Env, "<experiment-name>,<other-experiment-name>,...")
*/

// Env is the OS environment variable with comma-separated names of experiments to enable.
const Env = "CHARTNOTEEXPERIMENTS"

// Names of known experiments.
const (
	RootScope        = "root-scope"
	ParenTrim        = "paren-trim"
	TemplateComments = "template-comments"
)

var known = []string{RootScope, ParenTrim, TemplateComments}

// GetEnabled reports the name of all enabled experiments.
//
// An experiment is enabled by including its name in the OS environment variable named Env
// or by calling Enable.
func GetEnabled() []string {
	experiments := []string{}
	for _, name := range known {
		if isSet(name) {
			experiments = append(experiments, name)
		}
	}
	sort.Strings(experiments)
	return experiments
}

// IsKnown reports whether name is a registered experiment.
func IsKnown(name string) bool {
	for _, knownName := range known {
		if knownName == name {
			return true
		}
	}
	return false
}

// Enable turns on experiments in addition to those named in Env
// (e.g. from a config file).
func Enable(names ...string) {
	current := getSettings()
	for _, name := range names {
		current = append(current, strings.ToLower(strings.TrimSpace(name)))
	}
	settings = current
}

// IsRootScopeEnabled reports whether "$.Values" and "$.Release" style words
// are treated as references through the root scope.
func IsRootScopeEnabled() bool { return isSet(RootScope) }

// IsParenTrimEnabled reports whether leading "(" is split off as decoration.
func IsParenTrimEnabled() bool { return isSet(ParenTrim) }

// IsTemplateCommentsEnabled reports whether "{{/* ... */}}" expressions are comments.
func IsTemplateCommentsEnabled() bool { return isSet(TemplateComments) }

func isSet(flag string) bool {
	for _, setting := range getSettings() {
		if setting == flag {
			return true
		}
	}
	return false
}

func getSettings() []string {
	if settings == nil {
		for _, setting := range strings.Split(os.Getenv(Env), ",") {
			settings = append(settings, strings.ToLower(strings.TrimSpace(setting)))
		}
	}
	return settings
}

// settings cached copy of name of experiments that are enabled (cleaned up).
var settings []string

// ResetForTesting clears the experiment flag settings, forcing reload from the Env on next use.
//
// This is for testing purposes only.
func ResetForTesting() {
	settings = nil
}
