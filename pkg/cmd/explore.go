// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/definitions"
	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/hover"
	"github.com/spf13/cobra"
)

// ExploreOptions replays pointer events against an annotated template,
// showing when disclosure panels open and close.
type ExploreOptions struct {
	ChartFlags ChartFlags
	Template   string

	// Clock is used for hover delays; a *hover.ManualClock makes
	// "wait" advance time instead of sleeping.
	Clock hover.Clock
}

func NewExploreOptions() *ExploreOptions {
	return &ExploreOptions{Clock: hover.RealClock{}}
}

func NewExploreCmd(o *ExploreOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Replay pointer events from stdin against an annotated template",
		Long: `Replay pointer events from stdin against an annotated template.

Events (one per line):
  hover LINE:COL   pointer enters the token at given position
  leave            pointer leaves the token
  panel, unpanel   pointer enters or leaves the disclosure panel
  click            click outside of token and panel
  wait DURATION    let time pass (eg 120ms)`,
		Example: `printf 'hover 4:18\nwait 150ms\nleave\nwait 100ms\n' | chartnote explore -f chart/ --template templates/service.yaml`,
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	o.ChartFlags.Set(cmd)
	cmd.Flags().StringVar(&o.Template, "template", "", "Template to explore by relative path (eg templates/service.yaml)")
	return cmd
}

func (o *ExploreOptions) Run() error {
	filesToProcess, err := o.ChartFlags.Load()
	if err != nil {
		return err
	}
	return o.RunWithFiles(filesToProcess, ui.NewTTY(false))
}

func (o *ExploreOptions) RunWithFiles(filesToProcess []*files.File, ui ui.InteractiveUI) error {
	conf, err := o.ChartFlags.ConfigFlags.Load()
	if err != nil {
		return err
	}

	annotateOpts, err := conf.AnnotateOpts()
	if err != nil {
		return err
	}

	chart := files.NewChart(filesToProcess)

	file, err := o.pickTemplate(chart)
	if err != nil {
		return err
	}

	vals, err := o.ChartFlags.Values(chart)
	if err != nil {
		return err
	}

	data, err := file.Bytes()
	if err != nil {
		return fmt.Errorf("Reading %s: %s", file.Description(), err)
	}

	plan := annotate.Annotate(annotate.NewTemplate(file.RelativePath(), data), vals, annotateOpts)

	ex := &explorer{plan: plan, ui: ui}

	hoverOpts := conf.HoverOpts()
	hoverOpts.Clock = o.Clock
	hoverOpts.OnChange = ex.changed

	ex.ctrl = hover.NewController(hoverOpts)
	defer ex.ctrl.Stop()

	scanner := bufio.NewScanner(ui.Input())
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		err := ex.handle(strings.TrimSpace(scanner.Text()), o.Clock)
		if err != nil {
			return fmt.Errorf("Event on line %d: %s", lineNum, err)
		}
	}

	return scanner.Err()
}

func (o *ExploreOptions) pickTemplate(chart *files.Chart) (*files.File, error) {
	if len(o.Template) > 0 {
		file, found := chart.FindTemplate(o.Template)
		if !found {
			return nil, fmt.Errorf("Expected to find template '%s'", o.Template)
		}
		return file, nil
	}

	switch len(chart.Templates) {
	case 0:
		return nil, fmt.Errorf("Expected at least one template")
	case 1:
		return chart.Templates[0], nil
	default:
		var names []string
		for _, file := range chart.Templates {
			names = append(names, file.RelativePath())
		}
		return nil, fmt.Errorf("Expected --template to select one of: %s", strings.Join(names, ", "))
	}
}

type explorer struct {
	plan *annotate.Plan
	ui   ui.UI
	ctrl *hover.Controller

	mu       sync.Mutex
	active   annotate.Span
	activeAt string
}

func (e *explorer) handle(event string, clock hover.Clock) error {
	if len(event) == 0 || strings.HasPrefix(event, "#") {
		return nil
	}

	pieces := strings.Fields(event)

	switch pieces[0] {
	case "hover":
		if len(pieces) != 2 {
			return fmt.Errorf("Expected format 'hover LINE:COL'")
		}
		return e.hover(pieces[1])

	case "leave":
		e.ctrl.SetOverToken(false)
	case "panel":
		e.ctrl.SetOverPanel(true)
	case "unpanel":
		e.ctrl.SetOverPanel(false)
	case "click":
		e.ctrl.ClickOutside()

	case "wait":
		if len(pieces) != 2 {
			return fmt.Errorf("Expected format 'wait DURATION'")
		}
		dur, err := time.ParseDuration(pieces[1])
		if err != nil {
			return fmt.Errorf("Parsing duration: %s", err)
		}
		if manual, ok := clock.(*hover.ManualClock); ok {
			manual.Advance(dur)
		} else {
			time.Sleep(dur)
		}

	default:
		return fmt.Errorf("Unknown event '%s' (expected one of: hover, leave, panel, unpanel, click, wait)", pieces[0])
	}

	return nil
}

func (e *explorer) hover(pos string) error {
	lineStr, colStr, found := strings.Cut(pos, ":")
	if !found {
		return fmt.Errorf("Expected position in format LINE:COL, but was '%s'", pos)
	}
	lineNum, err := strconv.Atoi(lineStr)
	if err != nil {
		return fmt.Errorf("Parsing line number: %s", err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return fmt.Errorf("Parsing column: %s", err)
	}

	span, found := e.plan.SpanAt(lineNum, col)
	if found {
		_, found = span.Disclosure()
	}
	if !found {
		e.ctrl.SetOverToken(false)
		return nil
	}

	at := fmt.Sprintf("%d:%d", lineNum, span.Column)

	e.mu.Lock()
	switched := e.activeAt != at
	e.active, e.activeAt = span, at
	e.mu.Unlock()

	// Panel belongs to a single token
	if switched && e.ctrl.IsVisible() {
		e.ctrl.ClickOutside()
	}
	e.ctrl.SetOverToken(true)

	return nil
}

func (e *explorer) changed(state hover.State) {
	e.mu.Lock()
	span, at := e.active, e.activeAt
	e.mu.Unlock()

	if state != hover.Open {
		e.ui.Printf("%s\n", state)
		return
	}

	e.ui.Printf("%s %s %s (%s)\n", state, at, span.Text, span.Kind)

	text, _ := span.Disclosure()
	if span.Doc != nil {
		text = definitions.RenderText(text)
	}
	for _, line := range strings.Split(text, "\n") {
		e.ui.Printf("  %s\n", line)
	}
}
