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

// Package table implements the exhaustive Table schema: an immutable
// mapping whose key domain is a closed enum (or tuple of closed enums)
// derivable from the key type alone, ported from the Python veriq
// package's StrEnum-keyed dict subclass (_table.py).
package table

import (
	verrors "github.com/shunichironomura/veriq/errors"
)

// Enum is implemented by a Go type standing in for the original's
// StrEnum: a closed, enumerable domain of string variants. Table keys
// must satisfy EnumKey (Enum plus ~string, so that a variant name can be
// converted back into the key type).
type Enum interface {
	EnumVariants() []string
}

// EnumKey is the constraint satisfied by usable Table keys: a string-kind
// type that also reports its own closed variant domain.
type EnumKey interface {
	~string
	Enum
}

// TableSchema is implemented by every instantiation of Table and Table2.
// The schema walker (package schema) uses it to recognize a field as an
// exhaustive table without descending into its value type, and to read
// its expected key domain without needing a populated instance: the
// domain is derived entirely from the key type(s), so a zero-valued
// Table/Table2 answers ExpectedKeyTuples correctly.
type TableSchema interface {
	// ExpectedKeyTuples reports the expected key set as an ordered list
	// of tuples: one string per key component, in Cartesian-product
	// order. A single-enum Table yields one-element tuples.
	ExpectedKeyTuples() [][]string
}

// Table is an exhaustive mapping keyed by a single closed enum.
type Table[K EnumKey, V any] struct {
	m map[K]V
}

// New constructs a Table, rejecting (per spec.md §4.2) an empty input, any
// expected key missing, or any key not in the expected set.
func New[K EnumKey, V any](values map[K]V) (*Table[K, V], error) {
	if len(values) == 0 {
		return nil, verrors.New(verrors.Table, "table cannot be empty")
	}
	var zero K
	expected := zero.EnumVariants()
	if len(expected) == 0 {
		return nil, verrors.New(verrors.Table, "key type has no enum variants")
	}
	expectedSet := make(map[K]bool, len(expected))
	for _, v := range expected {
		expectedSet[K(v)] = true
	}
	for k := range values {
		if !expectedSet[k] {
			return nil, verrors.New(verrors.Table, "table has disallowed key: %s", verrors.Pretty(k))
		}
	}
	for k := range expectedSet {
		if _, ok := values[k]; !ok {
			return nil, verrors.New(verrors.Table, "table is missing key: %s", verrors.Pretty(k))
		}
	}
	m := make(map[K]V, len(values))
	for k, v := range values {
		m[k] = v
	}
	return &Table[K, V]{m: m}, nil
}

// Get reports the value stored at k, and whether k is present.
func (t *Table[K, V]) Get(k K) (V, bool) {
	v, ok := t.m[k]
	return v, ok
}

// ExpectedKeys reports the table's closed key domain.
func (t Table[K, V]) ExpectedKeys() []K {
	var zero K
	variants := zero.EnumVariants()
	keys := make([]K, len(variants))
	for i, v := range variants {
		keys[i] = K(v)
	}
	return keys
}

// ExpectedKeyTuples implements schema.TableSchema.
func (t Table[K, V]) ExpectedKeyTuples() [][]string {
	var zero K
	variants := zero.EnumVariants()
	out := make([][]string, len(variants))
	for i, v := range variants {
		out[i] = []string{v}
	}
	return out
}

// SetUnchecked stores v at k without re-validating closedness. It exists
// for the evaluator's hydrate-from-leaves reconstruction (package schema),
// which only ever supplies exactly the expected keys (guaranteed by the
// dependency graph's leaf expansion); authorial code should prefer New.
func (t *Table[K, V]) SetUnchecked(k K, v V) {
	if t.m == nil {
		t.m = make(map[K]V)
	}
	t.m[k] = v
}

// Table2 is an exhaustive mapping keyed by a pair of closed enums (a
// 2-dimensional table, per spec.md §4.2's tuple-keyed case).
type Table2[A, B EnumKey, V any] struct {
	m map[Pair[A, B]]V
}

// Pair is a tuple key for a 2-dimensional Table2.
type Pair[A, B EnumKey] struct {
	First  A
	Second B
}

// New2 constructs a Table2 over the Cartesian product of A's and B's enum
// variants, with the same closedness checks as New.
func New2[A, B EnumKey, V any](values map[Pair[A, B]]V) (*Table2[A, B, V], error) {
	if len(values) == 0 {
		return nil, verrors.New(verrors.Table, "table cannot be empty")
	}
	var a A
	var b B
	as, bs := a.EnumVariants(), b.EnumVariants()
	if len(as) == 0 || len(bs) == 0 {
		return nil, verrors.New(verrors.Table, "key type has no enum variants")
	}
	expected := make(map[Pair[A, B]]bool, len(as)*len(bs))
	for _, x := range as {
		for _, y := range bs {
			expected[Pair[A, B]{First: A(x), Second: B(y)}] = true
		}
	}
	for k := range values {
		if !expected[k] {
			return nil, verrors.New(verrors.Table, "table has disallowed key: %s", verrors.Pretty(k))
		}
	}
	for k := range expected {
		if _, ok := values[k]; !ok {
			return nil, verrors.New(verrors.Table, "table is missing key: %s", verrors.Pretty(k))
		}
	}
	m := make(map[Pair[A, B]]V, len(values))
	for k, v := range values {
		m[k] = v
	}
	return &Table2[A, B, V]{m: m}, nil
}

// Get reports the value stored at (a, b), and whether it is present.
func (t *Table2[A, B, V]) Get(a A, b B) (V, bool) {
	v, ok := t.m[Pair[A, B]{First: a, Second: b}]
	return v, ok
}

// ExpectedKeyTuples implements schema.TableSchema.
func (t Table2[A, B, V]) ExpectedKeyTuples() [][]string {
	var a A
	var b B
	as, bs := a.EnumVariants(), b.EnumVariants()
	out := make([][]string, 0, len(as)*len(bs))
	for _, x := range as {
		for _, y := range bs {
			out = append(out, []string{x, y})
		}
	}
	return out
}

// SetUnchecked stores v at (a, b) without re-validating closedness. See
// Table.SetUnchecked for why this exists.
func (t *Table2[A, B, V]) SetUnchecked(a A, b B, v V) {
	if t.m == nil {
		t.m = make(map[Pair[A, B]]V)
	}
	t.m[Pair[A, B]{First: a, Second: b}] = v
}
