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

package schema_test

import (
	"reflect"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/shunichironomura/veriq/path"
	"github.com/shunichironomura/veriq/schema"
	"github.com/shunichironomura/veriq/table"
)

type testOption string

const (
	testOptionA testOption = "A"
	testOptionB testOption = "B"
)

func (testOption) EnumVariants() []string { return []string{string(testOptionA), string(testOptionB)} }

type sub struct {
	X float64 `veriq:"x"`
}

type root struct {
	Sub   sub                               `veriq:"sub"`
	Table *table.Table[testOption, float64] `veriq:"table"`
	Skip  string                            `veriq:"-"`
}

func TestLeaves(t *testing.T) {
	leaves, err := schema.Leaves(reflect.TypeOf(root{}))
	qt.Assert(t, qt.IsNil(err))

	var got []string
	for _, parts := range leaves {
		got = append(got, path.Root().WithParts(parts...).String())
	}
	qt.Assert(t, qt.DeepEquals(got, []string{
		"$.sub.x",
		"$.table[A]",
		"$.table[B]",
	}))
}

func TestWalk(t *testing.T) {
	tbl, err := table.New(map[testOption]float64{testOptionA: 1, testOptionB: 2})
	qt.Assert(t, qt.IsNil(err))
	instance := root{Sub: sub{X: 3.5}, Table: tbl}

	v := reflect.ValueOf(&instance).Elem()

	got, err := schema.Walk(v, []path.Part{path.Attribute("sub"), path.Attribute("x")})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got.Interface().(float64), 3.5))

	got, err = schema.Walk(v, []path.Part{path.Attribute("table"), path.Item("B")})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got.Interface().(float64), 2.0))
}

func TestWalkUnresolvedField(t *testing.T) {
	instance := root{}
	v := reflect.ValueOf(&instance).Elem()
	_, err := schema.Walk(v, []path.Part{path.Attribute("missing")})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestHydrateRoundTrip(t *testing.T) {
	leaves := map[string]any{
		".sub.x":   7.25,
		".table[A]": 10.0,
		".table[B]": 20.0,
	}
	v, err := schema.Hydrate(reflect.TypeOf(root{}), leaves)
	qt.Assert(t, qt.IsNil(err))
	out := v.Interface().(root)
	qt.Assert(t, qt.Equals(out.Sub.X, 7.25))
	a, ok := out.Table.Get(testOptionA)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(a, 10.0))
}

func TestHydrateScalar(t *testing.T) {
	leaves := map[string]any{"": 42.0}
	v, err := schema.Hydrate(reflect.TypeOf(float64(0)), leaves)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Interface().(float64), 42.0))
}
