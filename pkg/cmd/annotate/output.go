// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/files"
	"github.com/spf13/cobra"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputHTML = "html"
)

type OutputOpts struct {
	Format        string
	Docs          bool
	AnnotatedOnly bool
}

func (o *OutputOpts) Set(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Format, "output", "o", OutputText, "Output format (text, json, html)")
	cmd.Flags().BoolVar(&o.Docs, "docs", false, "Include definition summaries in text output")
	cmd.Flags().BoolVar(&o.AnnotatedOnly, "annotated-only", false, "Skip lines without annotations in text output")
}

func (o OutputOpts) Validate() error {
	switch o.Format {
	case OutputText, OutputJSON, OutputHTML:
		return nil
	default:
		return fmt.Errorf("Unknown output format '%s' (expected one of: text, json, html)", o.Format)
	}
}

// Combined renders all plans into a single document.
func (o OutputOpts) Combined(plans []*annotate.Plan) ([]byte, error) {
	var buf bytes.Buffer

	switch o.Format {
	case OutputJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err := enc.Encode(plans)
		if err != nil {
			return nil, err
		}

	case OutputHTML:
		buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>chartnote</title></head><body>\n")
		for _, plan := range plans {
			fmt.Fprintf(&buf, "<h2>%s</h2>\n", html.EscapeString(plan.Name))
			err := annotate.WriteHTML(&buf, plan)
			if err != nil {
				return nil, err
			}
		}
		buf.WriteString("</body></html>\n")

	default:
		for i, plan := range plans {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "--- %s\n", plan.Name)
			err := annotate.WriteText(&buf, plan, o.textOpts())
			if err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

// Files renders each plan into its own output file.
func (o OutputOpts) Files(plans []*annotate.Plan) ([]files.OutputFile, error) {
	var result []files.OutputFile

	for _, plan := range plans {
		var buf bytes.Buffer
		var err error

		switch o.Format {
		case OutputJSON:
			enc := json.NewEncoder(&buf)
			enc.SetIndent("", "  ")
			err = enc.Encode(plan)
		case OutputHTML:
			err = annotate.WriteHTML(&buf, plan)
		default:
			err = annotate.WriteText(&buf, plan, o.textOpts())
		}
		if err != nil {
			return nil, fmt.Errorf("Rendering '%s': %s", plan.Name, err)
		}

		result = append(result, files.NewOutputFileForTemplate(plan.Name, o.ext(), buf.Bytes()))
	}

	return result, nil
}

func (o OutputOpts) textOpts() annotate.TextOpts {
	return annotate.TextOpts{Docs: o.Docs, AnnotatedOnly: o.AnnotatedOnly}
}

func (o OutputOpts) ext() string {
	switch o.Format {
	case OutputJSON:
		return "json"
	case OutputHTML:
		return "html"
	default:
		return "txt"
	}
}
