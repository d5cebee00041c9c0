// Copyright 2026 The veriq Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schema walks Go struct and table.Table/Table2 types the way the
// original veriq package's iter_leaf_path_parts walked Pydantic models:
// enumerating every scalar leaf of a schema, reading an instance's value
// at a leaf, and reconstructing a structured value from a set of leaves
// (hydrate-from-leaves, spec.md §4.8).
package schema

import (
	"reflect"
	"strings"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/path"
)

// Tag is the struct tag key used to give a field a path name different
// from its Go identifier, e.g. `veriq:"heat_generation"`. A tag value of
// "-" skips the field entirely, the Go analogue of the original's
// None-typed annotation.
const Tag = "veriq"

// TableSchema is re-exported from table's perspective: a type implementing
// it is treated as a flat leaf map over its expected key tuples, never
// descended into further. Kept as a local alias so this package does not
// need to import table (which would be a cyclic-looking dependency from
// the table side); any type with this method set qualifies, whether or
// not it lives in package table.
type TableSchema interface {
	ExpectedKeyTuples() [][]string
}

var tableSchemaType = reflect.TypeOf((*TableSchema)(nil)).Elem()

// fieldName reports the path attribute name for a struct field, honoring
// the veriq tag when present.
func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup(Tag); ok {
		return tag
	}
	return f.Name
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// asTableSchema reports whether t (or *t) implements TableSchema, and if
// so returns a zero-valued instance to query it. TableSchema's methods
// only ever touch the zero value of the key type parameters, so a
// zero-valued, unpopulated Table/Table2 answers correctly without needing
// a populated map.
func asTableSchema(t reflect.Type) (TableSchema, bool) {
	t = deref(t)
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	if !reflect.PointerTo(t).Implements(tableSchemaType) && !t.Implements(tableSchemaType) {
		return nil, false
	}
	zero := reflect.New(t).Elem()
	ts, ok := zero.Interface().(TableSchema)
	return ts, ok
}

// Leaves enumerates the ordered sequence of leaf part-lists addressing
// every scalar leaf reachable from t, per spec.md §4.3:
//
//   - a scalar (non-record, non-table) yields the empty part-list;
//   - a Table/Table2 yields one Item(...) part per expected key tuple,
//     without descending into the value type;
//   - a record (struct) yields Attribute(name) prepended to each leaf of
//     every non-skipped field, in declaration order.
func Leaves(t reflect.Type) ([][]path.Part, error) {
	return leaves(t, nil)
}

func leaves(t reflect.Type, visited []reflect.Type) ([][]path.Part, error) {
	t = deref(t)

	if ts, ok := asTableSchema(t); ok {
		tuples := ts.ExpectedKeyTuples()
		out := make([][]path.Part, len(tuples))
		for i, tup := range tuples {
			out[i] = []path.Part{path.Item(tup...)}
		}
		return out, nil
	}

	if t.Kind() != reflect.Struct {
		return [][]path.Part{{}}, nil
	}

	for _, v := range visited {
		if v == t {
			return nil, verrors.New(verrors.TypeMismatch, "cyclic schema type %s", t)
		}
	}
	visited = append(visited, t)

	// A struct with no exported, non-skipped fields (e.g. value.Float,
	// which wraps an unexported apd.Decimal) carries no record structure
	// a field-by-field walk could expose, so it is itself the leaf.
	if !hasLeafField(t) {
		return [][]path.Part{{}}, nil
	}

	var out [][]path.Part
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		sub, err := leaves(f.Type, visited)
		if err != nil {
			return nil, err
		}
		for _, parts := range sub {
			full := make([]path.Part, 0, len(parts)+1)
			full = append(full, path.Attribute(name))
			full = append(full, parts...)
			out = append(out, full)
		}
	}
	return out, nil
}

func hasLeafField(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if fieldName(f) == "-" {
			continue
		}
		return true
	}
	return false
}

// PartsKey builds a canonical, comparable map key from a part-list, used
// to index leaf-value maps during hydration.
func PartsKey(parts []path.Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.String())
	}
	return b.String()
}

// Walk descends v along parts, performing an Attribute(name) as a field
// access and an Item(k) as a table lookup, returning the value found at
// the end of parts (spec.md §4.8 Phase 1's "walking instance with parts").
func Walk(v reflect.Value, parts []path.Part) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if len(parts) == 0 {
		return v, nil
	}
	p := parts[0]
	if p.IsAttribute() {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, verrors.New(verrors.TypeMismatch, "attribute access on non-record type %s: %s", v.Type(), verrors.Pretty(v.Interface()))
		}
		f, ok := structFieldByName(v, p.Attr)
		if !ok {
			return reflect.Value{}, verrors.New(verrors.Unresolved, "no field %q on %s", p.Attr, v.Type())
		}
		return Walk(f, parts[1:])
	}
	result, err := tableGet(v, p.Keys)
	if err != nil {
		return reflect.Value{}, err
	}
	return Walk(result, parts[1:])
}

func structFieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if fieldName(f) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// tableGet invokes the Get method of a Table/Table2 value via reflection,
// converting the string keys in the path part to the table's concrete key
// type(s). Get has a pointer receiver, so a non-addressable v is first
// copied into a fresh addressable value.
func tableGet(v reflect.Value, keys []string) (reflect.Value, error) {
	if !v.CanAddr() {
		addr := reflect.New(v.Type())
		addr.Elem().Set(v)
		v = addr.Elem()
	}
	getMethod := v.Addr().MethodByName("Get")
	if !getMethod.IsValid() {
		return reflect.Value{}, verrors.New(verrors.TypeMismatch, "item access on non-subscriptable type %s: %s", v.Type(), verrors.Pretty(v.Interface()))
	}
	mt := getMethod.Type()
	if mt.NumIn() != len(keys) {
		return reflect.Value{}, verrors.New(verrors.TypeMismatch, "table %s expects %d key component(s), got %d", v.Type(), mt.NumIn(), len(keys))
	}
	args := make([]reflect.Value, len(keys))
	for i, k := range keys {
		args[i] = reflect.ValueOf(k).Convert(mt.In(i))
	}
	out := getMethod.Call(args)
	if !out[1].Bool() {
		return reflect.Value{}, verrors.New(verrors.Unresolved, "key %v not present in table %s", keys, v.Type())
	}
	return out[0], nil
}
