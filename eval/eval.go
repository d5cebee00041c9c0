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

// Package eval implements the two-phase evaluator (spec.md §4.8): model
// hydration followed by scheduled execution of calcs and verifs, with
// hydrate-from-leaves reassembling each parameter's structured value from
// its predecessor leaves.
package eval

import (
	"log/slog"
	"reflect"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/graph"
	"github.com/shunichironomura/veriq/path"
	"github.com/shunichironomura/veriq/project"
	"github.com/shunichironomura/veriq/schema"
)

// Evaluator runs a scheduled graph against a project registry.
type Evaluator struct {
	Project *project.Project
	Graph   *graph.Graph
	Order   []path.ProjectPath
	Logger  *slog.Logger
}

// New constructs an Evaluator. A nil logger falls back to slog.Default.
func New(proj *project.Project, g *graph.Graph, order []path.ProjectPath, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{Project: proj, Graph: g, Order: order, Logger: logger}
}

// Evaluate runs Phase 1 (model hydration) over instances — a map from
// scope name to a concrete value of that scope's root model type — then
// Phase 2 (scheduled execution), returning the completed Result.
func (e *Evaluator) Evaluate(instances map[string]any) (*Result, error) {
	result := newResult()
	if err := e.hydrateModels(instances, result); err != nil {
		return nil, err
	}
	if err := e.runScheduled(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Evaluator) hydrateModels(instances map[string]any, result *Result) error {
	for _, scopeName := range e.Project.ScopeNames() {
		inst, ok := instances[scopeName]
		if !ok {
			continue
		}
		s, _ := e.Project.Scope(scopeName)
		if s.RootModelType == nil {
			continue
		}
		leaves, err := schema.Leaves(s.RootModelType)
		if err != nil {
			return err
		}
		v := reflect.ValueOf(inst)
		for _, parts := range leaves {
			leafVal, err := schema.Walk(v, parts)
			if err != nil {
				return verrors.Wrap(verrors.Unresolved, err, "hydrating model for scope %q", scopeName)
			}
			pp := path.New(scopeName, path.Root().WithParts(parts...))
			result.set(pp, leafVal.Interface())
			e.Logger.Debug("hydrated model leaf", "path", pp.String())
		}
	}
	return nil
}

func (e *Evaluator) runScheduled(result *Result) error {
	for _, n := range e.Order {
		if _, ok := result.get(n); ok {
			continue
		}
		switch n.Path.Kind {
		case path.Model:
			return verrors.New(verrors.Unresolved, "no model instance supplied for %s", n.String())
		case path.Calc:
			if err := e.runCalc(n, result); err != nil {
				return err
			}
		case path.Verif:
			if err := e.runVerif(n, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// hydrateParam builds the reflect.Value for one calc/verif parameter by
// assembling its predecessor leaves (relative to ref's own prefix) into a
// leaf-value map and hydrating paramType from it.
func hydrateParam(result *Result, ref path.ProjectPath, srcs []path.ProjectPath, paramType reflect.Type) (reflect.Value, error) {
	leafVals := make(map[string]any, len(srcs))
	prefixLen := len(ref.Path.Parts)
	for _, src := range srcs {
		val, ok := result.get(src)
		if !ok {
			return reflect.Value{}, verrors.New(verrors.Unresolved, "missing predecessor value %s", src.String())
		}
		suffix := src.Path.Parts[prefixLen:]
		leafVals[schema.PartsKey(suffix)] = val
	}
	return schema.Hydrate(paramType, leafVals)
}

func (e *Evaluator) runCalc(n path.ProjectPath, result *Result) error {
	s, ok := e.Project.Scope(n.Scope)
	if !ok {
		return verrors.New(verrors.Unresolved, "no such scope %q", n.Scope)
	}
	c, ok := s.Calc(n.Path.Name)
	if !ok {
		return verrors.New(verrors.Unresolved, "no such calc %q in scope %q", n.Path.Name, n.Scope)
	}
	calcKey := path.New(c.Scope, path.CalcRoot(c.Name)).String()
	paramLeaves := e.Graph.ParamLeaves[calcKey]

	args := make([]reflect.Value, len(c.Params))
	for i, prm := range c.Params {
		ref := c.Resolved[prm.Name]
		hv, err := hydrateParam(result, ref, paramLeaves[prm.Name], c.ParamType(i))
		if err != nil {
			return verrors.Wrap(verrors.Unresolved, err, "calc %q parameter %q", c.Name, prm.Name)
		}
		args[i] = hv
	}

	e.Logger.Debug("evaluating calc", "scope", c.Scope, "calc", c.Name)
	out, err := c.Call(args)
	if err != nil {
		return verrors.Wrap(verrors.UserFn, err, "calc %q in scope %q", c.Name, c.Scope)
	}

	outLeaves, err := schema.Leaves(c.OutputType)
	if err != nil {
		return err
	}
	for _, parts := range outLeaves {
		leafVal, err := schema.Walk(out, parts)
		if err != nil {
			return verrors.Wrap(verrors.TypeMismatch, err, "reading output of calc %q", c.Name)
		}
		pp := path.New(c.Scope, path.CalcRoot(c.Name).WithParts(parts...))
		result.set(pp, leafVal.Interface())
	}
	return nil
}

func (e *Evaluator) runVerif(n path.ProjectPath, result *Result) error {
	s, ok := e.Project.Scope(n.Scope)
	if !ok {
		return verrors.New(verrors.Unresolved, "no such scope %q", n.Scope)
	}
	v, ok := s.Verif(n.Path.Name)
	if !ok {
		return verrors.New(verrors.Unresolved, "no such verif %q in scope %q", n.Path.Name, n.Scope)
	}
	paramLeaves := e.Graph.ParamLeaves[n.String()]

	args := make([]reflect.Value, len(v.Params))
	for i, prm := range v.Params {
		ref := v.Resolved[prm.Name]
		hv, err := hydrateParam(result, ref, paramLeaves[prm.Name], v.ParamType(i))
		if err != nil {
			return verrors.Wrap(verrors.Unresolved, err, "verif %q parameter %q", v.Name, prm.Name)
		}
		args[i] = hv
	}

	e.Logger.Debug("evaluating verif", "scope", v.Scope, "verif", v.Name)
	ok2, err := v.Call(args)
	if err != nil {
		return verrors.Wrap(verrors.UserFn, err, "verif %q in scope %q", v.Name, v.Scope)
	}
	result.set(n, ok2)
	return nil
}
