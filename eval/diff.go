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

import "github.com/google/go-cmp/cmp"

// Diff reports a human-readable difference between two Results, keyed by
// ProjectPath string (spec.md §8's determinism property: identical
// inputs and registry must produce a byte-identical result up to key
// ordering, which Diff lets a caller check directly instead of walking
// both maps by hand).
func Diff(a, b *Result) string {
	am := make(map[string]any, a.Len())
	for _, pp := range a.order {
		v, _ := a.get(pp)
		am[pp.String()] = v
	}
	bm := make(map[string]any, b.Len())
	for _, pp := range b.order {
		v, _ := b.get(pp)
		bm[pp.String()] = v
	}
	return cmp.Diff(am, bm)
}

// Equal reports whether a and b hold the same set of ProjectPath/value
// pairs, independent of visit order.
func Equal(a, b *Result) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, pp := range a.order {
		av, _ := a.get(pp)
		bv, ok := b.get(pp)
		if !ok || !cmp.Equal(av, bv) {
			return false
		}
	}
	return true
}
