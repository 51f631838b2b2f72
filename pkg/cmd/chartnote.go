// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	cmdann "carvel.dev/chartnote/pkg/cmd/annotate"
	"carvel.dev/chartnote/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

type ChartnoteOptions struct{}

func NewDefaultChartnoteOptions() *ChartnoteOptions {
	return &ChartnoteOptions{}
}

func NewDefaultChartnoteCmd() *cobra.Command {
	return NewChartnoteCmd(NewDefaultChartnoteOptions())
}

func NewChartnoteCmd(o *ChartnoteOptions) *cobra.Command {
	cmd := cmdann.NewCmd(cmdann.NewOptions())

	cmd.Use = "chartnote"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "chartnote annotates Helm chart templates"
	cmd.Long = `chartnote annotates Helm chart templates.

Each {{ }} expression is split into words and every word is classified as
a values reference, built-in object, function, flow control keyword or
variable. Values references show the default from the chart's values.yaml;
built-ins and functions show their documentation.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(cmdann.NewCmd(cmdann.NewOptions()))
	cmd.AddCommand(NewResolveCmd(NewResolveOptions()))
	cmd.AddCommand(NewDocsCmd(NewDocsOptions()))
	cmd.AddCommand(NewExploreCmd(NewExploreOptions()))
	cmd.AddCommand(NewWebsiteCmd(NewWebsiteOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
