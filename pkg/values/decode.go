// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"carvel.dev/chartnote/pkg/orderedmap"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FromFile picks a decoder based on file extension (YAML by default).
func FromFile(name string, data []byte) (*Value, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FromJSON(data)
	case ".toml":
		return FromTOML(data)
	default:
		return FromYAML(data)
	}
}

// FromYAML decodes the first document of a values file. An empty
// document yields an empty map.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling YAML values: %s", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewMap(nil), nil
	}

	return yamlConversion{}.convert(doc.Content[0])
}

type yamlConversion struct{}

func (c yamlConversion) convert(node *yaml.Node) (*Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return c.convert(node.Alias)

	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NewNull(), nil
		}
		return c.convert(node.Content[0])

	case yaml.MappingNode:
		dict := orderedmap.NewMap[*Value]()
		var merged []*yaml.Node

		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]

			if keyNode.Tag == "!!merge" {
				merged = append(merged, valNode)
				continue
			}

			val, err := c.convert(valNode)
			if err != nil {
				return nil, err
			}
			val.Description = helmDocsDescription(keyNode.HeadComment)
			dict.Set(keyNode.Value, val)
		}

		// explicit keys win over merged ones (<<: *anchor)
		for _, mergeNode := range merged {
			err := c.mergeInto(dict, mergeNode)
			if err != nil {
				return nil, err
			}
		}

		return NewMap(dict), nil

	case yaml.SequenceNode:
		items := []*Value{}
		for _, itemNode := range node.Content {
			item, err := c.convert(itemNode)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewList(items...), nil

	case yaml.ScalarNode:
		return c.scalar(node)

	default:
		return nil, fmt.Errorf("Unexpected YAML node kind %d at line %d", node.Kind, node.Line)
	}
}

func (c yamlConversion) mergeInto(dict *orderedmap.Map[*Value], node *yaml.Node) error {
	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}

	for _, src := range sources {
		val, err := c.convert(src)
		if err != nil {
			return err
		}
		if val.Kind() != KindMap {
			return fmt.Errorf("Expected merge key at line %d to reference a map, but was %s", node.Line, val.Kind())
		}
		val.Map().Iterate(func(k string, item *Value) {
			if _, found := dict.Get(k); !found {
				dict.Set(k, item)
			}
		})
	}
	return nil
}

func (c yamlConversion) scalar(node *yaml.Node) (*Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return NewNull(), nil

	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("Decoding boolean at line %d: %s", node.Line, err)
		}
		return NewBool(b), nil

	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return NewInt(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return NewUint(u), nil
		}
		return NewNumber(node.Value), nil

	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("Decoding float at line %d: %s", node.Line, err)
		}
		return NewFloat(f), nil

	default:
		// strings, timestamps, binary and custom tags are shown as written
		return NewString(node.Value), nil
	}
}

// helmDocsDescription extracts a helm-docs style description:
//
//	# -- Number of replicas
//	# spanning several lines
//	replicas: 3
func helmDocsDescription(comment string) string {
	if comment == "" {
		return ""
	}

	var pieces []string
	started := false

	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "#"))

		switch {
		case strings.HasPrefix(line, "--"):
			started = true
			pieces = []string{strings.TrimSpace(strings.TrimPrefix(line, "--"))}
		case started && line != "":
			pieces = append(pieces, line)
		}
	}

	return strings.TrimSpace(strings.Join(pieces, " "))
}

// FromJSON decodes a JSON document keeping object key order.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := jsonConversion{dec}.convert()
	if err != nil {
		if err == io.EOF {
			return NewMap(nil), nil
		}
		return nil, fmt.Errorf("Unmarshaling JSON values: %s", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("Unmarshaling JSON values: expected a single document")
	}

	return val, nil
}

type jsonConversion struct {
	dec *json.Decoder
}

func (c jsonConversion) convert() (*Value, error) {
	tok, err := c.dec.Token()
	if err != nil {
		return nil, err
	}

	switch typedTok := tok.(type) {
	case json.Delim:
		switch typedTok {
		case '{':
			dict := orderedmap.NewMap[*Value]()
			for c.dec.More() {
				keyTok, err := c.dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := c.convert()
				if err != nil {
					return nil, err
				}
				dict.Set(keyTok.(string), val)
			}
			_, err := c.dec.Token() // closing '}'
			return NewMap(dict), err

		case '[':
			items := []*Value{}
			for c.dec.More() {
				item, err := c.convert()
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			_, err := c.dec.Token() // closing ']'
			return NewList(items...), err

		default:
			return nil, fmt.Errorf("unexpected delimiter %s", typedTok)
		}

	case json.Number:
		return NewNumber(typedTok.String()), nil
	case string:
		return NewString(typedTok), nil
	case bool:
		return NewBool(typedTok), nil
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", typedTok)
	}
}

// FromTOML decodes a TOML document. Keys are ordered as they appear
// in the document.
func FromTOML(data []byte) (*Value, error) {
	var raw map[string]interface{}

	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling TOML values: %s", err)
	}

	rank := map[string]int{}
	for i, key := range md.Keys() {
		if _, found := rank[key.String()]; !found {
			rank[key.String()] = i
		}
	}

	return goConversion{rank: rank}.convert(raw, ""), nil
}

// FromGo converts already-decoded data (e.g. from encoding/json into
// interface{}). Map keys are sorted since native maps carry no order.
func FromGo(val interface{}) *Value {
	return goConversion{}.convert(val, "")
}

type goConversion struct {
	rank map[string]int
}

func (c goConversion) convert(val interface{}, path string) *Value {
	switch typedVal := val.(type) {
	case nil:
		return NewNull()
	case *Value:
		return typedVal
	case string:
		return NewString(typedVal)
	case bool:
		return NewBool(typedVal)
	case int:
		return NewInt(int64(typedVal))
	case int32:
		return NewInt(int64(typedVal))
	case int64:
		return NewInt(typedVal)
	case uint:
		return NewUint(uint64(typedVal))
	case uint32:
		return NewUint(uint64(typedVal))
	case uint64:
		return NewUint(typedVal)
	case float32:
		return NewFloat(float64(typedVal))
	case float64:
		return NewFloat(typedVal)
	case json.Number:
		return NewNumber(typedVal.String())
	case time.Time:
		return NewString(typedVal.Format(time.RFC3339Nano))

	case []interface{}:
		items := make([]*Value, 0, len(typedVal))
		for _, item := range typedVal {
			items = append(items, c.convert(item, path))
		}
		return NewList(items...)

	case []map[string]interface{}:
		items := make([]*Value, 0, len(typedVal))
		for _, item := range typedVal {
			items = append(items, c.convert(item, path))
		}
		return NewList(items...)

	case map[string]interface{}:
		dict := orderedmap.NewMap[*Value]()
		for _, key := range c.orderedKeys(typedVal, path) {
			dict.Set(key, c.convert(typedVal[key], c.join(path, key)))
		}
		return NewMap(dict)

	case map[interface{}]interface{}:
		stringMap := map[string]interface{}{}
		for k, v := range typedVal {
			stringMap[fmt.Sprintf("%v", k)] = v
		}
		return c.convert(stringMap, path)

	default:
		return NewString(fmt.Sprintf("%v", typedVal))
	}
}

func (c goConversion) orderedKeys(m map[string]interface{}, path string) []string {
	keys := orderedmap.SortedKeys(m)
	if c.rank == nil {
		return keys
	}

	rankOf := func(key string) int {
		if r, found := c.rank[c.join(path, key)]; found {
			return r
		}
		return len(c.rank)
	}

	sort.SliceStable(keys, func(i, j int) bool { return rankOf(keys[i]) < rankOf(keys[j]) })
	return keys
}

func (goConversion) join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
