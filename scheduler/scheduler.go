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

// Package scheduler linearizes a graph.Graph with Kahn's algorithm,
// per spec.md §4.7: nodes of equal in-degree are released to the ready
// queue, and processed, in FIFO order.
package scheduler

import (
	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/graph"
	"github.com/shunichironomura/veriq/path"
)

// Schedule computes a topological order of g's nodes. Among nodes that
// become ready (in-degree zero) at the same point, the order is the
// order in which they first entered the ready queue: initially g.Nodes'
// insertion order, then the order successors are discovered while
// draining the queue. Returns an ErrCycle if not every node in g can be
// ordered.
func Schedule(g *graph.Graph) ([]path.ProjectPath, error) {
	inDegree := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n.String()] = 0
	}
	for _, succs := range g.Successors {
		for _, s := range succs {
			inDegree[s.String()]++
		}
	}

	queue := make([]path.ProjectPath, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if inDegree[n.String()] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]path.ProjectPath, 0, len(g.Nodes))
	for head := 0; head < len(queue); head++ {
		n := queue[head]
		order = append(order, n)
		for _, succ := range g.Successors[n.String()] {
			key := succ.String()
			inDegree[key]--
			if inDegree[key] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, verrors.New(verrors.Cycle, "dependency graph is not a DAG: %d of %d nodes ordered", len(order), len(g.Nodes))
	}
	return order, nil
}
