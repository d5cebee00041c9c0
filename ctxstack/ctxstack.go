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

// Package ctxstack implements the scoped author-context stack (spec.md
// §5): nesting authoring constructs, such as a block of calcs declared
// "inside" a named requirement, so that code can query the innermost
// enclosing context of a given kind.
//
// The original per-thread mutable stack has no safe Go equivalent:
// goroutines carry no usable thread-local storage, and emulating one
// with a global map keyed by goroutine id is exactly the kind of runtime
// introspection the language discourages. A context.Context value chain
// gives the same guarantees for free — LIFO discipline falls out of
// context immutability (a panic never leaves a dangling push, because
// there is nothing to unwind: the caller's own ctx variable is
// untouched), and thread isolation falls out of ctx being an explicit,
// not ambient, parameter.
package ctxstack

import (
	"context"

	"github.com/google/uuid"
)

type frame struct {
	kind   string
	name   string
	id     uuid.UUID
	parent *frame
}

type key struct{}

// Push returns a copy of ctx with a new innermost frame of the given
// kind and name. Each frame gets a fresh correlation id, so that two
// frames sharing a kind and name (e.g. a requirement block entered
// twice) remain distinguishable in logs.
func Push(ctx context.Context, kind, name string) context.Context {
	top, _ := ctx.Value(key{}).(*frame)
	return context.WithValue(ctx, key{}, &frame{kind: kind, name: name, id: uuid.New(), parent: top})
}

// FrameID reports the correlation id of the innermost enclosing frame of
// the given kind.
func FrameID(ctx context.Context, kind string) (uuid.UUID, bool) {
	f, _ := ctx.Value(key{}).(*frame)
	for f != nil {
		if f.kind == kind {
			return f.id, true
		}
		f = f.parent
	}
	return uuid.Nil, false
}

// Current reports the name of the innermost enclosing frame of the given
// kind, searching outward from the top of the stack.
func Current(ctx context.Context, kind string) (string, bool) {
	f, _ := ctx.Value(key{}).(*frame)
	for f != nil {
		if f.kind == kind {
			return f.name, true
		}
		f = f.parent
	}
	return "", false
}

// Names reports every frame name of the given kind, innermost first.
func Names(ctx context.Context, kind string) []string {
	var out []string
	f, _ := ctx.Value(key{}).(*frame)
	for f != nil {
		if f.kind == kind {
			out = append(out, f.name)
		}
		f = f.parent
	}
	return out
}
