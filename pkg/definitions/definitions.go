// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package definitions

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed tables/*.toml
var tablesFS embed.FS

type Kind string

const (
	KindBuiltIn  Kind = "builtin"
	KindFunction Kind = "function"
)

// Definition is Markdown documentation for a single identifier.
type Definition struct {
	Kind     Kind   `json:"kind"`
	Name     string `json:"name"`
	Markdown string `json:"markdown"`
}

// Table is a read-only dictionary of definitions of a single kind.
type Table struct {
	Version string

	kind    Kind
	entries map[string]Definition
	names   []string
}

type tableFile struct {
	Version     string `toml:"version"`
	Definitions []struct {
		Name string `toml:"name"`
		Doc  string `toml:"doc"`
	} `toml:"definition"`
}

var (
	builtInsOnce sync.Once
	builtIns     *Table

	functionsOnce sync.Once
	functions     *Table
)

// BuiltIns returns the table of built-in objects (.Release, .Chart, ...).
func BuiltIns() *Table {
	builtInsOnce.Do(func() { builtIns = mustLoadTable("tables/builtins.toml", KindBuiltIn) })
	return builtIns
}

// Functions returns the table of template functions (include, nindent, ...).
func Functions() *Table {
	functionsOnce.Do(func() { functions = mustLoadTable("tables/functions.toml", KindFunction) })
	return functions
}

// BuiltIn looks up a built-in object by its exact identifier.
func BuiltIn(name string) (Definition, bool) { return BuiltIns().Get(name) }

// Function looks up a function by its exact name.
func Function(name string) (Definition, bool) { return Functions().Get(name) }

func mustLoadTable(path string, kind Kind) *Table {
	data, err := tablesFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("Reading bundled definitions '%s': %s", path, err))
	}
	table, err := NewTableFromTOML(data, kind)
	if err != nil {
		panic(fmt.Sprintf("Loading bundled definitions '%s': %s", path, err))
	}
	return table
}

// NewTableFromTOML decodes a definitions file:
//
//	version = "1.0.0"
//	[[definition]]
//	name = "nindent"
//	doc = "Markdown text"
func NewTableFromTOML(data []byte, kind Kind) (*Table, error) {
	var file tableFile

	_, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling definitions: %s", err)
	}

	table := &Table{Version: file.Version, kind: kind, entries: map[string]Definition{}}

	for _, def := range file.Definitions {
		if def.Name == "" {
			return nil, fmt.Errorf("Expected definition to have a name")
		}
		if _, found := table.entries[def.Name]; found {
			return nil, fmt.Errorf("Expected definition '%s' to be defined once", def.Name)
		}
		table.entries[def.Name] = Definition{
			Kind:     kind,
			Name:     def.Name,
			Markdown: strings.TrimSpace(def.Doc),
		}
		table.names = append(table.names, def.Name)
	}

	sort.Strings(table.names)

	return table, nil
}

func (t *Table) Kind() Kind { return t.kind }

// Get is an exact, case-sensitive lookup.
func (t *Table) Get(name string) (Definition, bool) {
	def, found := t.entries[name]
	return def, found
}

// Names returns all identifiers in alphabetical order.
func (t *Table) Names() []string {
	return append([]string{}, t.names...)
}

func (t *Table) Len() int { return len(t.entries) }

// HasNamespace reports whether the first segment of a dotted identifier
// (".Release" of ".Release.Name") is itself a table entry.
func (t *Table) HasNamespace(identifier string) bool {
	if !strings.HasPrefix(identifier, ".") {
		return false
	}
	ns := identifier
	if idx := strings.Index(identifier[1:], "."); idx >= 0 {
		ns = identifier[:idx+1]
	}
	_, found := t.entries[ns]
	return found
}
