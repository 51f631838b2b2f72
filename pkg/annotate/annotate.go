// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"strings"

	"carvel.dev/chartnote/pkg/definitions"
	"carvel.dev/chartnote/pkg/experiments"
	"carvel.dev/chartnote/pkg/texttemplate"
	"carvel.dev/chartnote/pkg/values"
)

const NoDefaultText = "(no default)"

// Template is a parsed chart template. It is not modified after creation.
type Template struct {
	doc *texttemplate.NodeDocument
}

func NewTemplate(name string, data []byte) *Template {
	return &Template{doc: texttemplate.NewParser().Parse(data, name)}
}

func (t *Template) Name() string { return t.doc.Name }

func (t *Template) Document() *texttemplate.NodeDocument { return t.doc }

type Opts struct {
	Classifier       ClassifierOpts
	Trim             TrimOpts
	Render           values.RenderOpts
	TemplateComments bool
}

// NewOptsFromExperiments enables heuristics turned on via experiments.
func NewOptsFromExperiments() Opts {
	return Opts{
		Classifier:       ClassifierOpts{RootScope: experiments.IsRootScopeEnabled()},
		Trim:             TrimOpts{ParenTrim: experiments.IsParenTrimEnabled()},
		TemplateComments: experiments.IsTemplateCommentsEnabled(),
	}
}

type Plan struct {
	Name            string `json:"name"`
	Lines           []Line `json:"lines"`
	TrailingNewline bool   `json:"trailingNewline,omitempty"`
}

type Line struct {
	Number int    `json:"number"`
	Raw    string `json:"raw"`
	Spans  []Span `json:"spans"`
}

type Span struct {
	Kind   Classification `json:"kind"`
	Text   string         `json:"text"`
	Column int            `json:"column"`

	// Default is set for values references
	Default *values.Default `json:"default,omitempty"`
	// Doc is set for built-ins and functions that have a definition
	Doc *definitions.Definition `json:"doc,omitempty"`
}

// Disclosure returns the text shown when pointing at the span and
// whether the span has a disclosure at all. Missing values get
// NoDefaultText so they are never confused with an empty value.
func (s Span) Disclosure() (string, bool) {
	switch {
	case s.Default != nil:
		if !s.Default.Found() {
			return NoDefaultText, true
		}
		return s.Default.Text, true
	case s.Doc != nil:
		return s.Doc.Markdown, true
	default:
		return "", false
	}
}

func (l Line) AsString() string {
	var result strings.Builder
	for _, span := range l.Spans {
		result.WriteString(span.Text)
	}
	return result.String()
}

func (p *Plan) AsString() string {
	var result strings.Builder
	for i, line := range p.Lines {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(line.AsString())
	}
	if p.TrailingNewline {
		result.WriteString("\n")
	}
	return result.String()
}

// SpanAt finds the span covering a 1-based line and byte column.
func (p *Plan) SpanAt(lineNum, col int) (Span, bool) {
	if lineNum < 1 || lineNum > len(p.Lines) {
		return Span{}, false
	}
	for _, span := range p.Lines[lineNum-1].Spans {
		if col >= span.Column && col < span.Column+len(span.Text) {
			return span, true
		}
	}
	return Span{}, false
}

// Annotate builds a render plan for a template. It never fails; anything
// that is not recognized is kept as plain text. vals may be nil.
func Annotate(tpl *Template, vals *values.Value, opts Opts) *Plan {
	a := annotator{
		opts:       opts,
		vals:       vals,
		classifier: NewClassifier(opts.Classifier),
	}
	return a.plan(tpl.doc)
}

type annotator struct {
	opts       Opts
	vals       *values.Value
	classifier *Classifier
}

func (a annotator) plan(doc *texttemplate.NodeDocument) *Plan {
	plan := &Plan{
		Name:            doc.Name,
		Lines:           []Line{},
		TrailingNewline: doc.TrailingNewline,
	}
	for _, node := range doc.Lines {
		plan.Lines = append(plan.Lines, a.line(node))
	}
	return plan
}

func (a annotator) line(node *texttemplate.NodeLine) Line {
	line := Line{Number: node.Position.LineNum(), Raw: node.Raw, Spans: []Span{}}

	if node.Comment {
		line.Spans = append(line.Spans, Span{Kind: Comment, Text: node.Raw, Column: 1})
		return line
	}

	var spans spanList
	for _, item := range node.Items {
		switch typedItem := item.(type) {
		case *texttemplate.NodeText:
			spans.add(Span{Kind: PlainText, Text: typedItem.Content, Column: typedItem.Position.Col()})
		case *texttemplate.NodeCode:
			a.code(typedItem, &spans)
		}
	}

	line.Spans = append(line.Spans, spans...)
	return line
}

func (a annotator) code(node *texttemplate.NodeCode, spans *spanList) {
	col := node.Position.Col()

	if a.opts.TemplateComments && isTemplateComment(node.Content) {
		spans.add(Span{Kind: Comment, Text: node.AsString(), Column: col})
		return
	}

	spans.add(Span{Kind: PlainText, Text: "{{", Column: col})
	col += len("{{")

	for _, word := range SplitWords(node.Content) {
		trimmed := TrimWord(word.Text, a.opts.Trim)

		spans.add(Span{Kind: PlainText, Text: trimmed.Leading, Column: col})
		col += len(trimmed.Leading)

		spans.add(a.identifier(trimmed, word.InString, col))
		col += len(trimmed.Identifier)

		spans.add(Span{Kind: PlainText, Text: trimmed.Trailing, Column: col})
		col += len(trimmed.Trailing)

		if !word.Last {
			spans.add(Span{Kind: PlainText, Text: wordSeparator, Column: col})
			col += len(wordSeparator)
		}
	}

	spans.add(Span{Kind: PlainText, Text: "}}", Column: col})
}

func (a annotator) identifier(word TrimmedWord, inString bool, col int) Span {
	span := Span{
		Kind:   a.classifier.Classify(word, inString),
		Text:   word.Identifier,
		Column: col,
	}

	switch span.Kind {
	case ValuesReference:
		def := values.Resolve(a.vals, a.classifier.ValuesPath(word.Identifier), a.opts.Render)
		span.Default = &def

	case BuiltInObject:
		if def, found := a.classifier.builtIns.Get(a.classifier.BuiltInName(word.Identifier)); found {
			span.Doc = &def
		}

	case Function:
		if def, found := a.classifier.functions.Get(word.Identifier); found {
			span.Doc = &def
		}
	}

	return span
}

// isTemplateComment matches "/* ... */" with optional trim markers.
func isTemplateComment(content string) bool {
	content = strings.TrimPrefix(content, "-")
	content = strings.TrimSuffix(content, "-")
	content = strings.TrimSpace(content)
	return len(content) >= 4 && strings.HasPrefix(content, "/*") && strings.HasSuffix(content, "*/")
}

type spanList []Span

// add skips empty spans and merges neighbouring plain text.
func (l *spanList) add(span Span) {
	if span.Text == "" {
		return
	}
	if last := len(*l) - 1; last >= 0 && span.Kind == PlainText && (*l)[last].Kind == PlainText {
		(*l)[last].Text += span.Text
		return
	}
	*l = append(*l, span)
}
