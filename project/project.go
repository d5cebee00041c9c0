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

// Package project implements the scope registry: the author-facing
// builder surface (Project.AddScope, Scope.RootModel, Scope.Calculation,
// Scope.Verification) that populates calc/verif descriptors before
// evaluation, and the get_type resolution (spec.md §4.4) the dependency
// graph builder relies on.
//
// Go has no per-parameter annotations, so unlike the original veriq
// package's decorator (which inspects a function's type hints for
// attached Reference objects), registration here takes the parameter
// references explicitly, in the function's declared positional order —
// one of the explicit-builder options spec.md's Design Notes (§9)
// anticipates for a non-reflective-annotation host language.
package project

import (
	"reflect"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/path"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()
var boolType = reflect.TypeOf(false)

// Param declares one positional parameter of a calc/verif function: its
// name (for diagnostics and hydrate-from-leaves field matching upstream)
// and the Reference it resolves against.
type Param struct {
	Name string
	Ref  path.Reference
}

// In constructs a Param.
func In(name string, ref path.Reference) Param { return Param{Name: name, Ref: ref} }

// Calc is a registered calculation: a pure function plus its resolved
// input references, matching spec.md §3's Calc record.
type Calc struct {
	Name       string
	Scope      string
	Imports    []string
	Params     []Param
	Resolved   map[string]path.ProjectPath
	OutputType reflect.Type
	fn         reflect.Value
}

// Call invokes the calc's underlying function with the given positional
// input values (already hydrated to the function's declared parameter
// types), returning its output value and any error it raised.
func (c *Calc) Call(args []reflect.Value) (reflect.Value, error) {
	out := c.fn.Call(args)
	if err, _ := out[1].Interface().(error); err != nil {
		return reflect.Value{}, err
	}
	return out[0], nil
}

// ParamType reports the declared Go type of the i'th positional
// parameter.
func (c *Calc) ParamType(i int) reflect.Type { return c.fn.Type().In(i) }

// Verif is a registered verification: identical in shape to Calc except
// its output type is always bool.
type Verif struct {
	Name     string
	Scope    string
	Imports  []string
	Params   []Param
	Resolved map[string]path.ProjectPath
	fn       reflect.Value
}

func (v *Verif) Call(args []reflect.Value) (bool, error) {
	out := v.fn.Call(args)
	if err, _ := out[1].Interface().(error); err != nil {
		return false, err
	}
	return out[0].Bool(), nil
}

func (v *Verif) ParamType(i int) reflect.Type { return v.fn.Type().In(i) }

// Scope is a named namespace grouping a root model type, calcs and
// verifs (spec.md §3). Requirement trees are out of the core's scope
// (spec.md §1) and are not modeled here.
type Scope struct {
	Name          string
	RootModelType reflect.Type

	calcOrder  []string
	calcs      map[string]*Calc
	verifOrder []string
	verifs     map[string]*Verif
}

// RootModel declares the scope's root data model type from a zero value
// of that type (reflect.TypeOf(MyModel{})).
func (s *Scope) RootModel(zero any) {
	s.RootModelType = reflect.TypeOf(zero)
}

// CalcNames reports registered calc names in registration order.
func (s *Scope) CalcNames() []string { return append([]string(nil), s.calcOrder...) }

// VerifNames reports registered verif names in registration order.
func (s *Scope) VerifNames() []string { return append([]string(nil), s.verifOrder...) }

// Calc looks up a registered calc by name.
func (s *Scope) Calc(name string) (*Calc, bool) { c, ok := s.calcs[name]; return c, ok }

// Verif looks up a registered verif by name.
func (s *Scope) Verif(name string) (*Verif, bool) { v, ok := s.verifs[name]; return v, ok }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// resolveParams validates and resolves a parameter list against the
// owning scope's name and declared imports, per spec.md §4.5 steps 1-5.
func resolveParams(ownerScope string, imports []string, params []Param) (map[string]path.ProjectPath, error) {
	resolved := make(map[string]path.ProjectPath, len(params))
	for _, p := range params {
		if p.Ref.RawPath == "" {
			return nil, verrors.New(verrors.MissingRef, "parameter %q has no reference", p.Name)
		}
		effScope := p.Ref.EffectiveScope(ownerScope)
		if effScope != ownerScope && !contains(imports, effScope) {
			return nil, verrors.New(verrors.ScopeNotImported, "reference %q targets scope %q, which is neither %q nor imported", p.Ref.RawPath, effScope, ownerScope)
		}
		pp, err := p.Ref.Resolve(ownerScope)
		if err != nil {
			return nil, err
		}
		resolved[p.Name] = pp
	}
	return resolved, nil
}

// Calculation registers a calc named name, computed by fn, whose
// positional parameters are described by params in fn's declared
// argument order. fn must have the shape func(A, B, ...) (Output, error).
func (s *Scope) Calculation(name string, imports []string, fn any, params ...Param) (*Calc, error) {
	if _, exists := s.calcs[name]; exists {
		return nil, verrors.New(verrors.DuplicateName, "duplicate calc name %q in scope %q", name, s.Name)
	}
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, verrors.New(verrors.MissingRef, "calc %q: fn is not a function", name)
	}
	fnType := fnVal.Type()
	if fnType.NumIn() != len(params) {
		return nil, verrors.New(verrors.MissingRef, "calc %q: function has %d parameters but %d references were supplied", name, fnType.NumIn(), len(params))
	}
	if fnType.NumOut() != 2 || !fnType.Out(1).Implements(errorType) {
		return nil, verrors.New(verrors.MissingReturn, "calc %q: function must return (Output, error)", name)
	}

	resolved, err := resolveParams(s.Name, imports, params)
	if err != nil {
		return nil, err
	}

	c := &Calc{
		Name:       name,
		Scope:      s.Name,
		Imports:    append([]string(nil), imports...),
		Params:     params,
		Resolved:   resolved,
		OutputType: fnType.Out(0),
		fn:         fnVal,
	}
	if s.calcs == nil {
		s.calcs = map[string]*Calc{}
	}
	s.calcs[name] = c
	s.calcOrder = append(s.calcOrder, name)
	return c, nil
}

// Verification registers a verif named name, computed by fn, whose
// positional parameters are described by params in fn's declared
// argument order. fn must have the shape func(A, B, ...) (bool, error).
func (s *Scope) Verification(name string, imports []string, fn any, params ...Param) (*Verif, error) {
	if _, exists := s.verifs[name]; exists {
		return nil, verrors.New(verrors.DuplicateName, "duplicate verif name %q in scope %q", name, s.Name)
	}
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, verrors.New(verrors.MissingRef, "verif %q: fn is not a function", name)
	}
	fnType := fnVal.Type()
	if fnType.NumIn() != len(params) {
		return nil, verrors.New(verrors.MissingRef, "verif %q: function has %d parameters but %d references were supplied", name, fnType.NumIn(), len(params))
	}
	if fnType.NumOut() != 2 || !fnType.Out(1).Implements(errorType) {
		return nil, verrors.New(verrors.MissingReturn, "verif %q: function must return (bool, error)", name)
	}
	if fnType.Out(0) != boolType {
		return nil, verrors.New(verrors.TypeMismatch, "verif %q: function returns %s, want bool", name, fnType.Out(0))
	}

	resolved, err := resolveParams(s.Name, imports, params)
	if err != nil {
		return nil, err
	}

	v := &Verif{
		Name:     name,
		Scope:    s.Name,
		Imports:  append([]string(nil), imports...),
		Params:   params,
		Resolved: resolved,
		fn:       fnVal,
	}
	if s.verifs == nil {
		s.verifs = map[string]*Verif{}
	}
	s.verifs[name] = v
	s.verifOrder = append(s.verifOrder, name)
	return v, nil
}

// Project is the root registry: a named mapping of Scopes (spec.md §3).
type Project struct {
	order  []string
	scopes map[string]*Scope
}

// New constructs an empty Project.
func New() *Project {
	return &Project{scopes: map[string]*Scope{}}
}

// AddScope registers a new, empty Scope under name.
func (p *Project) AddScope(name string) (*Scope, error) {
	if _, exists := p.scopes[name]; exists {
		return nil, verrors.New(verrors.DuplicateName, "duplicate scope name %q", name)
	}
	s := &Scope{Name: name, calcs: map[string]*Calc{}, verifs: map[string]*Verif{}}
	p.scopes[name] = s
	p.order = append(p.order, name)
	return s, nil
}

// Scope looks up a registered scope by name.
func (p *Project) Scope(name string) (*Scope, bool) { s, ok := p.scopes[name]; return s, ok }

// ScopeNames reports registered scope names in registration order.
func (p *Project) ScopeNames() []string { return append([]string(nil), p.order...) }

// GetType resolves the Go type addressed by pp, per spec.md §4.4.
func (p *Project) GetType(pp path.ProjectPath) (reflect.Type, error) {
	s, ok := p.scopes[pp.Scope]
	if !ok {
		return nil, verrors.New(verrors.Unresolved, "no such scope %q", pp.Scope)
	}
	switch pp.Path.Kind {
	case path.Model:
		if s.RootModelType == nil {
			return nil, verrors.New(verrors.Unresolved, "scope %q has no root model", pp.Scope)
		}
		return walkType(s.RootModelType, pp.Path.Parts)
	case path.Calc:
		c, ok := s.calcs[pp.Path.Name]
		if !ok {
			return nil, verrors.New(verrors.Unresolved, "no such calc %q in scope %q", pp.Path.Name, pp.Scope)
		}
		return walkType(c.OutputType, pp.Path.Parts)
	case path.Verif:
		if _, ok := s.verifs[pp.Path.Name]; !ok {
			return nil, verrors.New(verrors.Unresolved, "no such verif %q in scope %q", pp.Path.Name, pp.Scope)
		}
		return boolType, nil
	default:
		return nil, verrors.New(verrors.Unresolved, "unknown path kind")
	}
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func fieldTypeByPathName(t reflect.Type, name string) (reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("veriq")
		fname := f.Name
		if ok {
			fname = tag
		}
		if fname == name {
			return f.Type, true
		}
	}
	return nil, false
}

// walkType walks t part-by-part: Attribute(n) reads the field's declared
// type, Item(k) requires the current type be a two-parameter generic
// (Table/Table2 or equivalent) and returns its value type, found by
// locating the table's backing map field and taking its element type.
func walkType(t reflect.Type, parts []path.Part) (reflect.Type, error) {
	t = derefType(t)
	if len(parts) == 0 {
		return t, nil
	}
	p := parts[0]
	if p.IsAttribute() {
		if t.Kind() != reflect.Struct {
			return nil, verrors.New(verrors.TypeMismatch, "attribute access %q on non-record type %s", p.Attr, t)
		}
		ft, ok := fieldTypeByPathName(t, p.Attr)
		if !ok {
			return nil, verrors.New(verrors.Unresolved, "no field %q on %s", p.Attr, t)
		}
		return walkType(ft, parts[1:])
	}
	if t.Kind() != reflect.Struct {
		return nil, verrors.New(verrors.TypeMismatch, "item access on non-subscriptable type %s", t)
	}
	var valueType reflect.Type
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Type.Kind() == reflect.Map {
			valueType = t.Field(i).Type.Elem()
			break
		}
	}
	if valueType == nil {
		return nil, verrors.New(verrors.TypeMismatch, "item access on non-subscriptable type %s", t)
	}
	return walkType(valueType, parts[1:])
}
