// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/values"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Watcher re-annotates whenever watched files change. Templates and
// values keep their identity while their content is unchanged, so only
// affected plans are rebuilt.
type Watcher struct {
	opts         *AnnotateOptions
	annotateOpts annotate.Opts
	ui           ui.UI

	sessions   map[string]*annotate.Session
	templates  map[string]cachedTemplate
	vals       *values.Value
	valsJSON   string
	valsLoaded bool
}

type cachedTemplate struct {
	data string
	tpl  *annotate.Template
}

func NewWatcher(opts *AnnotateOptions, annotateOpts annotate.Opts, ui ui.UI) *Watcher {
	return &Watcher{
		opts:         opts,
		annotateOpts: annotateOpts,
		ui:           ui,
		sessions:     map[string]*annotate.Session{},
		templates:    map[string]cachedTemplate{},
	}
}

func (w *Watcher) Run(inSrc, outSrc FileSource) error {
	if _, ok := inSrc.(*RegularFilesSource); !ok {
		return fmt.Errorf("Expected --watch to be used with files specified via -f")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Creating file watcher: %s", err)
	}
	defer fsw.Close()

	paths := append(append([]string{}, w.opts.RegularFilesSourceOpts.Files()...), w.opts.ValuesFlags.ValuesFiles...)
	for _, path := range paths {
		err := w.watchPath(fsw, path)
		if err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w.runOnce(inSrc, outSrc)

	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.ui.Debugf("watch: %s\n", event)

			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.watchPath(fsw, event.Name)
				}
			}
			pending = time.After(watchDebounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.ui.Warnf("Watching files: %s\n", err)

		case <-pending:
			pending = nil
			w.runOnce(inSrc, outSrc)

		case <-ctx.Done():
			return nil
		}
	}
}

// watchPath adds path and, for directories, all subdirectories.
func (w *Watcher) watchPath(fsw *fsnotify.Watcher, path string) error {
	if path == "-" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil
	}

	return filepath.Walk(path, func(walkedPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || walkedPath == path {
			err := fsw.Add(walkedPath)
			if err != nil {
				return fmt.Errorf("Watching '%s': %s", walkedPath, err)
			}
		}
		return nil
	})
}

func (w *Watcher) runOnce(inSrc, outSrc FileSource) {
	t1 := time.Now()

	out := w.annotate(inSrc)
	if out.Err != nil {
		w.ui.Warnf("Error: %s\n", out.Err)
		return
	}
	if out.Empty {
		return
	}

	err := outSrc.Output(out)
	if err != nil {
		w.ui.Warnf("Error: %s\n", err)
	}

	w.ui.Debugf("watch: annotated in %s\n", time.Now().Sub(t1))
}

func (w *Watcher) annotate(inSrc FileSource) AnnotateOutput {
	in, err := inSrc.Input()
	if err != nil {
		return AnnotateOutput{Err: err}
	}

	chart := files.NewChart(in.Files)

	vals, err := w.opts.Values(chart)
	if err != nil {
		return AnnotateOutput{Err: err}
	}
	vals = w.stableValues(vals)

	if w.opts.ValuesFlags.Inspect {
		return w.opts.inspectValues(vals, w.ui)
	}

	var plans []*annotate.Plan
	rebuilt := 0

	for _, file := range chart.Templates {
		tpl, err := w.stableTemplate(file)
		if err != nil {
			return AnnotateOutput{Err: err}
		}

		session, found := w.sessions[file.RelativePath()]
		if !found {
			session = annotate.NewSession(w.annotateOpts)
			w.sessions[file.RelativePath()] = session
		}

		builds := session.Builds()
		session.SetTemplate(tpl)
		session.SetValues(vals)
		plans = append(plans, session.Plan())

		if session.Builds() > builds {
			rebuilt++
		}
	}

	w.ui.Debugf("watch: rebuilt %d of %d plans\n", rebuilt, len(plans))

	return AnnotateOutput{Plans: plans}
}

func (w *Watcher) stableValues(vals *values.Value) *values.Value {
	valsJSON := "null"
	if vals != nil {
		valsJSON = values.AsJSON(vals)
	}
	if w.valsLoaded && valsJSON == w.valsJSON {
		return w.vals
	}
	w.vals, w.valsJSON, w.valsLoaded = vals, valsJSON, true
	return vals
}

func (w *Watcher) stableTemplate(file *files.File) (*annotate.Template, error) {
	data, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("Reading %s: %s", file.Description(), err)
	}

	cached, found := w.templates[file.RelativePath()]
	if found && cached.data == string(data) {
		return cached.tpl, nil
	}

	tpl := annotate.NewTemplate(file.RelativePath(), data)
	w.templates[file.RelativePath()] = cachedTemplate{string(data), tpl}
	return tpl, nil
}
