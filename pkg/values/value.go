// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"carvel.dev/chartnote/pkg/orderedmap"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		panic(fmt.Sprintf("unknown value kind %d", int(k)))
	}
}

// Value is a node of a values tree. Scalars keep their canonical text;
// maps keep key order of the source document.
type Value struct {
	kind   Kind
	scalar string
	list   []*Value
	dict   *orderedmap.Map[*Value]

	// Description is documentation attached to the value in its source
	// (e.g. a "# -- text" comment above a key in values.yaml)
	Description string
}

func NewNull() *Value            { return &Value{kind: KindNull} }
func NewString(str string) *Value { return &Value{kind: KindString, scalar: str} }
func NewBool(b bool) *Value       { return &Value{kind: KindBool, scalar: strconv.FormatBool(b)} }
func NewInt(i int64) *Value       { return &Value{kind: KindNumber, scalar: strconv.FormatInt(i, 10)} }
func NewUint(i uint64) *Value     { return &Value{kind: KindNumber, scalar: strconv.FormatUint(i, 10)} }

func NewFloat(f float64) *Value {
	switch {
	case math.IsInf(f, 1):
		return &Value{kind: KindNumber, scalar: ".inf"}
	case math.IsInf(f, -1):
		return &Value{kind: KindNumber, scalar: "-.inf"}
	case math.IsNaN(f):
		return &Value{kind: KindNumber, scalar: ".nan"}
	}
	return &Value{kind: KindNumber, scalar: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewNumber canonicalizes numeric text (e.g. "080" or "1.50").
// Text that is not a number is kept as a string value.
func NewNumber(text string) *Value {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewInt(i)
	}
	if i, err := strconv.ParseUint(text, 10, 64); err == nil {
		return NewUint(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return NewFloat(f)
	}
	return NewString(text)
}

func NewList(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindList, list: items}
}

func NewMap(dict *orderedmap.Map[*Value]) *Value {
	if dict == nil {
		dict = orderedmap.NewMap[*Value]()
	}
	return &Value{kind: KindMap, dict: dict}
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsStructured() bool { return v.kind == KindList || v.kind == KindMap }

// Scalar returns canonical text of a scalar value ("null" for null).
func (v *Value) Scalar() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString, KindNumber, KindBool:
		return v.scalar
	default:
		panic(fmt.Sprintf("Expected scalar value, but was %s", v.kind))
	}
}

func (v *Value) Items() []*Value { return v.list }

func (v *Value) Map() *orderedmap.Map[*Value] { return v.dict }

// Len is the number of items of a structured value; scalars are 0.
func (v *Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.dict.Len()
	default:
		return 0
	}
}

// Lookup walks a dot separated path (e.g. "hub.ingress.enabled").
// Numeric segments index into lists. An empty path returns v itself.
// Any missing piece results in false; it never panics.
func (v *Value) Lookup(path string) (*Value, bool) {
	if v == nil {
		return nil, false
	}
	if path == "" {
		return v, true
	}

	curr := v
	for _, piece := range strings.Split(path, ".") {
		next, found := curr.child(piece)
		if !found {
			return nil, false
		}
		curr = next
	}
	return curr, true
}

func (v *Value) child(piece string) (*Value, bool) {
	if piece == "" {
		return nil, false
	}
	switch v.kind {
	case KindMap:
		return v.dict.Get(piece)
	case KindList:
		idx, err := strconv.Atoi(piece)
		if err != nil || idx < 0 || idx >= len(v.list) {
			return nil, false
		}
		return v.list[idx], true
	default:
		return nil, false
	}
}

// AsGo converts v into plain Go values (maps are unordered).
func (v *Value) AsGo() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.scalar
	case KindBool:
		return v.scalar == "true"
	case KindNumber:
		if i, err := strconv.ParseInt(v.scalar, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.scalar, 64); err == nil {
			return f
		}
		return v.scalar
	case KindList:
		result := make([]interface{}, 0, len(v.list))
		for _, item := range v.list {
			result = append(result, item.AsGo())
		}
		return result
	case KindMap:
		result := map[string]interface{}{}
		v.dict.Iterate(func(k string, item *Value) {
			result[k] = item.AsGo()
		})
		return result
	default:
		panic(fmt.Sprintf("unknown value kind %s", v.kind))
	}
}
