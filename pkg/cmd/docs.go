// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/definitions"
	"github.com/spf13/cobra"
)

type DocsOptions struct {
	Name   string
	Search string
	Limit  int
	List   bool
	HTML   bool
}

func NewDocsOptions() *DocsOptions {
	return &DocsOptions{}
}

func NewDocsCmd(o *DocsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"d", "doc"},
		Short:   "Show documentation for built-in objects and functions",
		Example: `chartnote docs --name include
chartnote docs --search nind
chartnote docs --list`,
		RunE: func(_ *cobra.Command, _ []string) error { return o.Run(ui.NewTTY(false)) },
	}
	cmd.Flags().StringVar(&o.Name, "name", "", "Show definition with exact name (eg .Release.Name, toYaml)")
	cmd.Flags().StringVar(&o.Search, "search", "", "Fuzzy search definitions by name")
	cmd.Flags().IntVar(&o.Limit, "limit", 10, "Maximum number of search results (0 for all)")
	cmd.Flags().BoolVar(&o.List, "list", false, "List all definitions")
	cmd.Flags().BoolVar(&o.HTML, "html", false, "Render definition as HTML")
	return cmd
}

func (o *DocsOptions) Run(ui ui.UI) error {
	switch {
	case len(o.Name) > 0:
		return o.show(ui)

	case len(o.Search) > 0:
		results := definitions.Search(o.Search, o.Limit)
		if len(results) == 0 {
			return fmt.Errorf("Expected to find definitions matching '%s'", o.Search)
		}
		return o.table(ui, results)

	case o.List:
		var all []definitions.Definition
		for _, table := range []*definitions.Table{definitions.BuiltIns(), definitions.Functions()} {
			for _, name := range table.Names() {
				def, _ := table.Get(name)
				all = append(all, def)
			}
		}
		return o.table(ui, all)

	default:
		return fmt.Errorf("Expected one of --name, --search or --list to be specified")
	}
}

func (o *DocsOptions) show(ui ui.UI) error {
	def, found := o.lookup(o.Name)
	if !found {
		err := fmt.Errorf("Expected to find definition for '%s'", o.Name)

		var hints []string
		for _, suggestion := range definitions.Search(o.Name, 3) {
			hints = append(hints, suggestion.Name)
		}
		if len(hints) > 0 {
			err = fmt.Errorf("%s (did you mean: %s?)", err, strings.Join(hints, ", "))
		}
		return err
	}

	if o.HTML {
		out, err := definitions.RenderHTML(def.Markdown)
		if err != nil {
			return fmt.Errorf("Rendering definition '%s': %s", def.Name, err)
		}
		ui.Printf("%s", out)
		return nil
	}

	ui.Printf("%s (%s)\n\n%s\n", def.Name, def.Kind, definitions.RenderText(def.Markdown))

	return nil
}

// lookup is exact but allows built-ins without their leading dot.
func (o *DocsOptions) lookup(name string) (definitions.Definition, bool) {
	if def, found := definitions.BuiltIn(name); found {
		return def, true
	}
	if !strings.HasPrefix(name, ".") {
		if def, found := definitions.BuiltIn("." + name); found {
			return def, true
		}
	}
	return definitions.Function(name)
}

func (o *DocsOptions) table(ui ui.UI, defs []definitions.Definition) error {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Kind\tName\tSummary\n")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Kind, def.Name, definitions.Summary(def.Markdown))
	}

	err := w.Flush()
	if err != nil {
		return err
	}

	ui.Printf("%s", buf.String())

	return nil
}
