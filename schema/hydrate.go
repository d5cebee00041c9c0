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

package schema

import (
	"reflect"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/path"
)

// Hydrate reconstructs a value of type t from a flat map of leaf values
// keyed by PartsKey, implementing spec.md §4.8's hydrate-from-leaves:
//
//   - a scalar target is the single leaf value at the empty-suffix key;
//   - a record target recursively hydrates each field from the leaves
//     whose prefix matches that field's name;
//   - a Table/Table2 target is built from the leaves whose prefix is an
//     Item access, one per expected key tuple.
func Hydrate(t reflect.Type, leafValues map[string]any) (reflect.Value, error) {
	return hydrate(t, leafValues, nil)
}

func hydrate(t reflect.Type, leafValues map[string]any, prefix []path.Part) (reflect.Value, error) {
	wantPtr := t.Kind() == reflect.Pointer
	elemType := deref(t)

	if ts, ok := asTableSchema(elemType); ok {
		tablePtr := reflect.New(elemType)
		setMethod := tablePtr.MethodByName("SetUnchecked")
		if !setMethod.IsValid() {
			return reflect.Value{}, verrors.New(verrors.TypeMismatch, "table type %s has no SetUnchecked method", elemType)
		}
		mt := setMethod.Type()
		for _, tup := range ts.ExpectedKeyTuples() {
			full := appendPart(prefix, path.Item(tup...))
			val, ok := leafValues[PartsKey(full)]
			if !ok {
				return reflect.Value{}, verrors.New(verrors.Unresolved, "missing leaf value for %s", PartsKey(full))
			}
			args := make([]reflect.Value, len(tup)+1)
			for i, k := range tup {
				args[i] = reflect.ValueOf(k).Convert(mt.In(i))
			}
			args[len(tup)] = coerce(reflect.ValueOf(val), mt.In(len(tup)))
			setMethod.Call(args)
		}
		if wantPtr {
			return tablePtr, nil
		}
		return tablePtr.Elem(), nil
	}

	if elemType.Kind() == reflect.Struct && hasLeafField(elemType) {
		sv := reflect.New(elemType).Elem()
		for i := 0; i < elemType.NumField(); i++ {
			f := elemType.Field(i)
			if !f.IsExported() {
				continue
			}
			name := fieldName(f)
			if name == "-" {
				continue
			}
			childVal, err := hydrate(f.Type, leafValues, appendPart(prefix, path.Attribute(name)))
			if err != nil {
				return reflect.Value{}, err
			}
			sv.Field(i).Set(childVal)
		}
		if wantPtr {
			p := reflect.New(elemType)
			p.Elem().Set(sv)
			return p, nil
		}
		return sv, nil
	}

	val, ok := leafValues[PartsKey(prefix)]
	if !ok {
		return reflect.Value{}, verrors.New(verrors.Unresolved, "missing leaf value for %s", PartsKey(prefix))
	}
	leaf := coerce(reflect.ValueOf(val), elemType)
	if wantPtr {
		p := reflect.New(elemType)
		p.Elem().Set(leaf)
		return p, nil
	}
	return leaf, nil
}

func appendPart(prefix []path.Part, p path.Part) []path.Part {
	out := make([]path.Part, len(prefix), len(prefix)+1)
	copy(out, prefix)
	return append(out, p)
}

func coerce(v reflect.Value, target reflect.Type) reflect.Value {
	if v.Type() == target {
		return v
	}
	if v.Type().ConvertibleTo(target) {
		return v.Convert(target)
	}
	return v
}
