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

package eval

import "github.com/shunichironomura/veriq/path"

// Result is the evaluator's output mapping (spec.md §4.9's result): every
// leaf of every root model, every leaf of every calc output, and every
// verif's boolean, keyed by ProjectPath. Order preserves first-write
// order (model leaves first, then scheduled calc/verif leaves), which is
// deterministic for identical inputs and registries.
type Result struct {
	values map[string]any
	order  []path.ProjectPath
}

func newResult() *Result {
	return &Result{values: map[string]any{}}
}

func (r *Result) set(pp path.ProjectPath, v any) {
	key := pp.String()
	if _, exists := r.values[key]; !exists {
		r.order = append(r.order, pp)
	}
	r.values[key] = v
}

func (r *Result) get(pp path.ProjectPath) (any, bool) {
	v, ok := r.values[pp.String()]
	return v, ok
}

// Get looks up the value computed at pp.
func (r *Result) Get(pp path.ProjectPath) (any, bool) {
	return r.get(pp)
}

// Order reports every ProjectPath present in the result, in the order it
// was first written.
func (r *Result) Order() []path.ProjectPath {
	return append([]path.ProjectPath(nil), r.order...)
}

// Len reports the number of entries in the result.
func (r *Result) Len() int { return len(r.values) }
