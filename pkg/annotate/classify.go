// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"
	"strings"

	"carvel.dev/chartnote/pkg/definitions"
)

type Classification int

const (
	PlainText Classification = iota
	Comment
	BuiltInObject
	ValuesReference
	Function
	FlowControl
	Variable
)

var classificationNames = map[Classification]string{
	PlainText:       "plain-text",
	Comment:         "comment",
	BuiltInObject:   "built-in",
	ValuesReference: "values-reference",
	Function:        "function",
	FlowControl:     "flow-control",
	Variable:        "variable",
}

func (c Classification) String() string {
	if name, found := classificationNames[c]; found {
		return name
	}
	return fmt.Sprintf("classification(%d)", int(c))
}

func (c Classification) MarshalText() ([]byte, error) {
	if _, found := classificationNames[c]; !found {
		return nil, fmt.Errorf("Unknown classification %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(data []byte) error {
	for kind, name := range classificationNames {
		if name == string(data) {
			*c = kind
			return nil
		}
	}
	return fmt.Errorf("Unknown classification '%s'", data)
}

const (
	valuesRoot = ".Values"
	rootScope  = "$"
)

var flowControlKeywords = []string{
	"if", "else", "end", "with", "range", "define", "template", "block", "include",
}

type ClassifierOpts struct {
	// RootScope treats "$.Values..." and "$.Release..." as references
	// through the root scope instead of as variables
	RootScope bool
}

type Classifier struct {
	opts      ClassifierOpts
	builtIns  *definitions.Table
	functions *definitions.Table
	keywords  map[string]struct{}
}

func NewClassifier(opts ClassifierOpts) *Classifier {
	return NewClassifierWithTables(opts, definitions.BuiltIns(), definitions.Functions())
}

func NewClassifierWithTables(opts ClassifierOpts, builtIns, functions *definitions.Table) *Classifier {
	keywords := map[string]struct{}{}
	for _, keyword := range flowControlKeywords {
		// identifiers with a function definition ("include") are functions
		if _, found := functions.Get(keyword); !found {
			keywords[keyword] = struct{}{}
		}
	}
	return &Classifier{opts: opts, builtIns: builtIns, functions: functions, keywords: keywords}
}

// Classify assigns exactly one classification; the first matching rule wins.
func (c *Classifier) Classify(word TrimmedWord, inString bool) Classification {
	ident := word.Identifier

	switch {
	case inString || ident == "":
		return PlainText
	case c.isValuesReference(ident):
		return ValuesReference
	case c.isBuiltIn(ident):
		return BuiltInObject
	case strings.HasPrefix(ident, rootScope):
		return Variable
	case c.isKeyword(ident):
		return FlowControl
	case c.isFunction(ident):
		return Function
	default:
		return PlainText
	}
}

// ValuesPath returns the lookup key of a values reference
// (".Values.a.b" => "a.b", ".Values" => "").
func (c *Classifier) ValuesPath(ident string) string {
	ident = c.withoutRootScope(ident)
	return strings.TrimPrefix(strings.TrimPrefix(ident, valuesRoot), ".")
}

// BuiltInName returns the definition key of a built-in object.
func (c *Classifier) BuiltInName(ident string) string { return c.withoutRootScope(ident) }

func (c *Classifier) isValuesReference(ident string) bool {
	ident = c.withoutRootScope(ident)
	return ident == valuesRoot || strings.HasPrefix(ident, valuesRoot+".")
}

func (c *Classifier) isBuiltIn(ident string) bool {
	return c.builtIns.HasNamespace(c.withoutRootScope(ident))
}

func (c *Classifier) isKeyword(ident string) bool {
	_, found := c.keywords[ident]
	return found
}

func (c *Classifier) isFunction(ident string) bool {
	_, found := c.functions.Get(ident)
	return found
}

func (c *Classifier) withoutRootScope(ident string) string {
	if c.opts.RootScope && strings.HasPrefix(ident, rootScope+".") {
		return strings.TrimPrefix(ident, rootScope)
	}
	return ident
}
