// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name ("" means JSON).
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("Unknown values format '%s' (expected one of: json, yaml)", name)
	}
}

type RenderOpts struct {
	Format Format
}

type DefaultKind string

const (
	// DefaultNone marks a path that is not present in the values tree.
	// It is never used for a stored null or empty value.
	DefaultNone   DefaultKind = "none"
	DefaultScalar DefaultKind = "scalar"
	DefaultInline DefaultKind = "inline"
	DefaultBlock  DefaultKind = "block"
)

// Default is a resolved default value ready to be shown to a user.
type Default struct {
	Path        string      `json:"path"`
	Kind        DefaultKind `json:"kind"`
	Text        string      `json:"text,omitempty"`
	Description string      `json:"description,omitempty"`
}

func (d Default) Found() bool { return d.Kind != DefaultNone }

// Resolve looks up path in tree and renders what it finds.
// A nil tree (no values supplied) resolves every path to DefaultNone.
func Resolve(tree *Value, path string, opts RenderOpts) Default {
	val, found := tree.Lookup(path)
	if !found {
		return Default{Path: path, Kind: DefaultNone}
	}

	kind, text := Render(val, opts)

	return Default{Path: path, Kind: kind, Text: text, Description: val.Description}
}

// Render produces display text for a value: scalars literally (empty
// string as ""), empty structures inline ({} or []), anything else as an
// indented block.
func Render(val *Value, opts RenderOpts) (DefaultKind, string) {
	switch val.Kind() {
	case KindString:
		if val.Scalar() == "" {
			return DefaultScalar, `""`
		}
		return DefaultScalar, val.Scalar()

	case KindNull, KindNumber, KindBool:
		return DefaultScalar, val.Scalar()

	case KindList:
		if val.Len() == 0 {
			return DefaultInline, "[]"
		}
	case KindMap:
		if val.Len() == 0 {
			return DefaultInline, "{}"
		}
	}

	switch opts.Format {
	case FormatYAML:
		return DefaultBlock, AsYAML(val)
	default:
		return DefaultBlock, AsJSON(val)
	}
}

// AsJSON renders val as indented JSON keeping map key order.
func AsJSON(val *Value) string {
	var compact bytes.Buffer
	writeJSON(&compact, val)

	var indented bytes.Buffer
	err := json.Indent(&indented, compact.Bytes(), "", "  ")
	if err != nil {
		panic(fmt.Sprintf("Indenting generated JSON: %s", err))
	}
	return indented.String()
}

func writeJSON(buf *bytes.Buffer, val *Value) {
	switch val.Kind() {
	case KindNull, KindBool:
		buf.WriteString(val.Scalar())

	case KindNumber:
		if json.Valid([]byte(val.Scalar())) {
			buf.WriteString(val.Scalar())
		} else {
			writeJSONString(buf, val.Scalar())
		}

	case KindString:
		writeJSONString(buf, val.Scalar())

	case KindList:
		buf.WriteString("[")
		for i, item := range val.Items() {
			if i > 0 {
				buf.WriteString(",")
			}
			writeJSON(buf, item)
		}
		buf.WriteString("]")

	case KindMap:
		buf.WriteString("{")
		i := 0
		val.Map().Iterate(func(k string, item *Value) {
			if i > 0 {
				buf.WriteString(",")
			}
			writeJSONString(buf, k)
			buf.WriteString(":")
			writeJSON(buf, item)
			i++
		})
		buf.WriteString("}")
	}
}

func writeJSONString(buf *bytes.Buffer, str string) {
	bs, err := json.Marshal(str)
	if err != nil {
		panic(fmt.Sprintf("Marshaling string: %s", err))
	}
	buf.Write(bs)
}

// AsYAML renders val as a YAML block keeping map key order.
func AsYAML(val *Value) string {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := enc.Encode(asYAMLNode(val))
	if err != nil {
		panic(fmt.Sprintf("Marshaling YAML: %s", err))
	}
	enc.Close()

	return strings.TrimSuffix(buf.String(), "\n")
}

func asYAMLNode(val *Value) *yaml.Node {
	switch val.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val.Scalar()}
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(val.Scalar(), ".eEn") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.Scalar()}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val.Scalar()}

	case KindList:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val.Items() {
			node.Content = append(node.Content, asYAMLNode(item))
		}
		return node

	case KindMap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		val.Map().Iterate(func(k string, item *Value) {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, asYAMLNode(item))
		})
		return node

	default:
		panic(fmt.Sprintf("unknown value kind %s", val.Kind()))
	}
}

// MarshalJSON encodes the value itself (not its rendering) in key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeJSON(&buf, v)
	return buf.Bytes(), nil
}
