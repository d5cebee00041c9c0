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

// Package errors defines the closed set of error kinds the veriq engine
// raises, at both registration and evaluation time.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kr/pretty"
)

// Kind identifies which of the taxonomy's error categories an *Error
// belongs to. The set is closed: no caller constructs a Kind outside this
// package.
type Kind string

const (
	PathSyntax       Kind = "path_syntax"
	Unresolved       Kind = "unresolved"
	TypeMismatch     Kind = "type_mismatch"
	MissingRef       Kind = "missing_ref"
	MissingReturn    Kind = "missing_return"
	ScopeNotImported Kind = "scope_not_imported"
	DuplicateName    Kind = "duplicate_name"
	Table            Kind = "table"
	Cycle            Kind = "cycle"
	UserFn           Kind = "user_fn"
)

// Error is the concrete error type returned by every veriq package. It
// carries a Kind for programmatic dispatch, an optional Path giving the
// project-path components the error concerns, and an optional wrapped
// cause (populated for UserFn).
type Error struct {
	Kind  Kind
	Msg   string
	path  []string
	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if len(e.path) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.path, "/"))
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Path reports the path components, if any, associated with the error.
func (e *Error) Path() []string { return e.path }

// WithPath returns a copy of e annotated with path components, mirroring
// how cue/errors attaches a node's Path to a *nodeError.
func (e *Error) WithPath(parts ...string) *Error {
	cp := *e
	cp.path = append(append([]string(nil), e.path...), parts...)
	return &cp
}

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs a *Error of the given kind that wraps cause, used for
// ErrUserFn where the calc/verif's own error must remain inspectable via
// Unwrap/As.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), cause: cause}
}

// Is reports whether the first *Error in err's chain (err itself, or the
// first one it wraps) has the given kind. An *Error wrapped inside another
// *Error is not consulted.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Pretty renders v using kr/pretty's Go-syntax-like formatter, for
// embedding a readable snapshot of a rejected value or path into an error
// message (ErrTypeMismatch, ErrTable).
func Pretty(v any) string {
	return pretty.Sprint(v)
}

// List is an ordered collection of *Error whose Error method prints one
// message per line, mirroring the list-printing behavior of
// cue/errors.Error on a cue/errors.list. Registration (package project)
// returns its first error directly and does not build a List.
type List []*Error

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Add appends err to the list, unless err is nil.
func (l *List) Add(err *Error) {
	if err == nil {
		return
	}
	*l = append(*l, err)
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
