// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"

	"carvel.dev/chartnote/pkg/annotate"
	cmdann "carvel.dev/chartnote/pkg/cmd/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/website"
	"github.com/spf13/cobra"
)

type WebsiteOptions struct {
	ListenAddr      string
	RedirectToHTTPS bool
	Debug           bool

	ConfigFlags  cmdann.ConfigFlags
	AnnotateOpts annotate.Opts
}

func NewWebsiteOptions() *WebsiteOptions {
	return &WebsiteOptions{
		AnnotateOpts: annotate.NewOptsFromExperiments(),
	}
}

func NewWebsiteCmd(o *WebsiteOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "website",
		Short: "Starts website HTTP server",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVar(&o.ListenAddr, "listen-addr", "localhost:8080", "Listen address")
	cmd.Flags().BoolVar(&o.RedirectToHTTPS, "redirect-to-https", true, "Redirect to HTTPs address")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	o.ConfigFlags.Set(cmd)
	return cmd
}

func (o *WebsiteOptions) Server() *website.Server {
	opts := website.ServerOpts{
		ListenAddr:      o.ListenAddr,
		RedirectToHTTPS: o.RedirectToHTTPS,
		AnnotateFunc:    o.annotateBulk,
		ErrorFunc:       o.bulkOutErr,
	}
	return website.NewServer(opts)
}

func (o *WebsiteOptions) Run() error {
	conf, err := o.ConfigFlags.Load()
	if err != nil {
		return err
	}

	o.AnnotateOpts, err = conf.AnnotateOpts()
	if err != nil {
		return err
	}

	return o.Server().Run()
}

// annotateBulk annotates in process; the request body uses the same
// format as --bulk-in.
func (o *WebsiteOptions) annotateBulk(data []byte) ([]byte, error) {
	in, err := cmdann.NewBulkInput(data)
	if err != nil {
		return nil, err
	}

	out := cmdann.NewOptions().RunWithFiles(in, o.AnnotateOpts, ui.NewTTY(o.Debug))

	return cmdann.NewBulkOutput(out)
}

func (*WebsiteOptions) bulkOutErr(err error) ([]byte, error) {
	return json.Marshal(cmdann.BulkPlans{Errors: err.Error()})
}
