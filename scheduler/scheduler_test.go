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

package scheduler_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/graph"
	"github.com/shunichironomura/veriq/path"
	"github.com/shunichironomura/veriq/scheduler"
)

func node(s string) path.ProjectPath {
	p, err := path.Parse(s)
	if err != nil {
		panic(err)
	}
	return path.New("s", p)
}

func TestScheduleLinearChain(t *testing.T) {
	a, b, c := node("$.a"), node("@b"), node("?c")
	g := &graph.Graph{
		Nodes: []path.ProjectPath{a, b, c},
		Successors: map[string][]path.ProjectPath{
			a.String(): {b},
			b.String(): {c},
			c.String(): nil,
		},
	}
	order, err := scheduler.Schedule(g)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals([]string{order[0].String(), order[1].String(), order[2].String()}, []string{a.String(), b.String(), c.String()}))
}

func TestScheduleFIFOTieBreak(t *testing.T) {
	a, b, c, d := node("$.a"), node("$.b"), node("@c"), node("@d")
	// a and b both have in-degree zero; a was inserted first, so a, then
	// b, is the expected visit order. Both feed c, which feeds d.
	g := &graph.Graph{
		Nodes: []path.ProjectPath{a, b, c, d},
		Successors: map[string][]path.ProjectPath{
			a.String(): {c},
			b.String(): {c},
			c.String(): {d},
			d.String(): nil,
		},
	}
	order, err := scheduler.Schedule(g)
	qt.Assert(t, qt.IsNil(err))
	got := make([]string, len(order))
	for i, n := range order {
		got[i] = n.String()
	}
	qt.Assert(t, qt.DeepEquals(got, []string{a.String(), b.String(), c.String(), d.String()}))
}

func TestScheduleDetectsCycle(t *testing.T) {
	a, b := node("@a"), node("@b")
	g := &graph.Graph{
		Nodes: []path.ProjectPath{a, b},
		Successors: map[string][]path.ProjectPath{
			a.String(): {b},
			b.String(): {a},
		},
	}
	_, err := scheduler.Schedule(g)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.Cycle)))
}
