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

// Package graph builds the leaf-level dependency graph (spec.md §4.6):
// for every calc/verif reference, the referenced type is expanded into
// its leaves via the schema walker, and an edge is added from each
// source leaf to each of the calc's output leaves (or to the verif's
// single node).
package graph

import (
	"sort"

	"github.com/mpvl/unique"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/path"
	"github.com/shunichironomura/veriq/project"
	"github.com/shunichironomura/veriq/schema"
)

// Graph is the leaf-level successor/predecessor multimap plus the
// per-calc/verif parameter source-leaf index the evaluator's
// hydrate-from-leaves step consumes directly.
type Graph struct {
	// Nodes lists every node encountered, in first-seen order, the
	// insertion order the scheduler's FIFO tie-break operates over.
	Nodes []path.ProjectPath

	// Successors maps a node's canonical string key to its deduplicated
	// (sorted) list of successor nodes.
	Successors map[string][]path.ProjectPath
	// Predecessors is the inverse of Successors.
	Predecessors map[string][]path.ProjectPath

	// ParamLeaves maps a calc/verif node's canonical key to its
	// parameter names and each parameter's ordered source leaves, used
	// by the evaluator to hydrate that parameter's input value.
	ParamLeaves map[string]map[string][]path.ProjectPath

	nodeByKey map[string]path.ProjectPath
}

func newGraph() *Graph {
	return &Graph{
		Successors:   map[string][]path.ProjectPath{},
		Predecessors: map[string][]path.ProjectPath{},
		ParamLeaves:  map[string]map[string][]path.ProjectPath{},
		nodeByKey:    map[string]path.ProjectPath{},
	}
}

func (g *Graph) addNode(pp path.ProjectPath) {
	key := pp.String()
	if _, ok := g.nodeByKey[key]; ok {
		return
	}
	g.nodeByKey[key] = pp
	g.Nodes = append(g.Nodes, pp)
	if _, ok := g.Successors[key]; !ok {
		g.Successors[key] = nil
	}
	if _, ok := g.Predecessors[key]; !ok {
		g.Predecessors[key] = nil
	}
}

func (g *Graph) addEdge(src, dst path.ProjectPath) {
	g.addNode(src)
	g.addNode(dst)
	srcKey, dstKey := src.String(), dst.String()
	g.Successors[srcKey] = append(g.Successors[srcKey], dst)
	g.Predecessors[dstKey] = append(g.Predecessors[dstKey], src)
}

// projectPathSlice adapts a []path.ProjectPath, sorted and deduplicated
// by its canonical string form, to mpvl/unique's Interface.
type projectPathSlice []path.ProjectPath

func (s projectPathSlice) Len() int           { return len(s) }
func (s projectPathSlice) Less(i, j int) bool { return s[i].String() < s[j].String() }
func (s projectPathSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func dedup(pps []path.ProjectPath) []path.ProjectPath {
	if len(pps) == 0 {
		return pps
	}
	cp := append([]path.ProjectPath(nil), pps...)
	s := projectPathSlice(cp)
	sort.Sort(s)
	n := len(cp)
	unique.Sort(truncatable{&cp, &n})
	return cp[:n]
}

// truncatable adapts a slice pointer + length pointer to mpvl/unique's
// Interface, which requires a Truncate method in addition to
// sort.Interface (unique.Sort reorders duplicates to the tail and asks
// the caller to drop them).
type truncatable struct {
	data *[]path.ProjectPath
	n    *int
}

func (t truncatable) Len() int           { return *t.n }
func (t truncatable) Less(i, j int) bool { return (*t.data)[i].String() < (*t.data)[j].String() }
func (t truncatable) Swap(i, j int)      { (*t.data)[i], (*t.data)[j] = (*t.data)[j], (*t.data)[i] }
func (t truncatable) Truncate(n int)     { *t.n = n }

func finalizeSuccessors(g *Graph) {
	for key, succ := range g.Successors {
		g.Successors[key] = dedup(succ)
	}
	for key, pred := range g.Predecessors {
		g.Predecessors[key] = dedup(pred)
	}
}

// sourceLeaves resolves ref (already a fully-formed ProjectPath, e.g. the
// calc's Resolved[param]) into its leaf-level ProjectPaths by asking the
// project for ref's type and walking it with the schema walker, per
// spec.md §4.6 steps 1-3.
func sourceLeaves(proj *project.Project, ref path.ProjectPath) ([]path.ProjectPath, error) {
	t, err := proj.GetType(ref)
	if err != nil {
		return nil, err
	}
	parts, err := schema.Leaves(t)
	if err != nil {
		return nil, err
	}
	out := make([]path.ProjectPath, len(parts))
	for i, p := range parts {
		out[i] = ref.WithParts(p...)
	}
	return out, nil
}

// Build walks every scope's calcs and verifs in proj, producing the
// leaf-level dependency graph.
func Build(proj *project.Project) (*Graph, error) {
	g := newGraph()

	for _, scopeName := range proj.ScopeNames() {
		s, _ := proj.Scope(scopeName)

		for _, calcName := range s.CalcNames() {
			c, _ := s.Calc(calcName)
			calcNode := path.New(c.Scope, path.CalcRoot(c.Name))

			outLeaves, err := schema.Leaves(c.OutputType)
			if err != nil {
				return nil, err
			}
			destinations := make([]path.ProjectPath, len(outLeaves))
			for i, p := range outLeaves {
				destinations[i] = path.New(c.Scope, path.CalcRoot(c.Name).WithParts(p...))
				g.addNode(destinations[i])
			}

			paramLeaves := map[string][]path.ProjectPath{}
			for _, prm := range c.Params {
				ref := c.Resolved[prm.Name]
				srcs, err := sourceLeaves(proj, ref)
				if err != nil {
					return nil, verrors.Wrap(verrors.Unresolved, err, "calc %q parameter %q", c.Name, prm.Name)
				}
				paramLeaves[prm.Name] = srcs
				for _, src := range srcs {
					for _, dst := range destinations {
						g.addEdge(src, dst)
					}
				}
			}
			g.ParamLeaves[calcNode.String()] = paramLeaves
		}

		for _, verifName := range s.VerifNames() {
			v, _ := s.Verif(verifName)
			dest := path.New(v.Scope, path.VerifRoot(v.Name))
			g.addNode(dest)

			paramLeaves := map[string][]path.ProjectPath{}
			for _, prm := range v.Params {
				ref := v.Resolved[prm.Name]
				srcs, err := sourceLeaves(proj, ref)
				if err != nil {
					return nil, verrors.Wrap(verrors.Unresolved, err, "verif %q parameter %q", v.Name, prm.Name)
				}
				paramLeaves[prm.Name] = srcs
				for _, src := range srcs {
					g.addEdge(src, dest)
				}
			}
			g.ParamLeaves[dest.String()] = paramLeaves
		}
	}

	finalizeSuccessors(g)
	return g, nil
}
