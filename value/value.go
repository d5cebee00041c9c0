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

// Package value supplies the exact-decimal numeric type calcs and verifs
// use for "float" leaves, grounded on the apd.Decimal arithmetic in
// cuelang.org/go/internal/core/adt (binop.go's apdCtx/numFunc pattern),
// rather than float64, so calc chains compose without accumulating binary
// floating-point drift across scopes.
package value

import "github.com/cockroachdb/apd/v3"

// ctx is the shared decimal context for all Float arithmetic, mirroring
// the package-level apdCtx used throughout adt/binop.go.
var ctx = apd.BaseContext.WithPrecision(34)

// Float is a scalar leaf value for a "float"-typed field, calc output, or
// verif input/output.
type Float struct {
	d apd.Decimal
}

// NewFloat constructs a Float from a float64.
func NewFloat(f float64) Float {
	var v Float
	_, _ = v.d.SetFloat64(f)
	return v
}

// Decimal exposes the underlying *apd.Decimal for read access.
func (f Float) Decimal() *apd.Decimal { return &f.d }

// Float64 converts back to a float64, for display or interop with code
// that does not need exact decimal semantics.
func (f Float) Float64() float64 {
	v, _ := f.d.Float64()
	return v
}

func (f Float) String() string { return f.d.String() }

// Mul returns f * g.
func (f Float) Mul(g Float) Float {
	var out Float
	_, _ = ctx.Mul(&out.d, &f.d, &g.d)
	return out
}

// Add returns f + g.
func (f Float) Add(g Float) Float {
	var out Float
	_, _ = ctx.Add(&out.d, &f.d, &g.d)
	return out
}

// Sub returns f - g.
func (f Float) Sub(g Float) Float {
	var out Float
	_, _ = ctx.Sub(&out.d, &f.d, &g.d)
	return out
}

// LessThan reports whether f < g.
func (f Float) LessThan(g Float) bool {
	return f.d.Cmp(&g.d) < 0
}

// GreaterThan reports whether f > g.
func (f Float) GreaterThan(g Float) bool {
	return f.d.Cmp(&g.d) > 0
}

// Equal reports whether f and g denote the same decimal value. Defining
// this method lets go-cmp compare Float values without reaching into the
// unexported apd.Decimal field.
func (f Float) Equal(g Float) bool {
	return f.d.Cmp(&g.d) == 0
}
