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

// Package path implements the reference grammar: parsing and stringifying
// ModelPath ("$..."), CalcPath ("@name...") and VerifPath ("?name")
// values, and the ProjectPath/Reference value types built on top of them.
package path

import (
	"strings"

	verrors "github.com/shunichironomura/veriq/errors"
)

// Kind identifies which of the three path shapes a Path has.
type Kind int

const (
	// Model addresses a scope's root model, rooted at "$".
	Model Kind = iota
	// Calc addresses a calc's output, rooted at "@" + the calc's name.
	Calc
	// Verif addresses a verif's boolean result, rooted at "?" + the
	// verif's name. A VerifPath never carries Parts.
	Verif
)

func (k Kind) String() string {
	switch k {
	case Model:
		return "model"
	case Calc:
		return "calc"
	case Verif:
		return "verif"
	default:
		return "unknown"
	}
}

// A Part is one step of a Path: either an attribute (field) access or an
// item (table key) access. A nil Keys means the part is an Attribute; a
// non-nil Keys means it is an Item, with one key for a scalar-keyed table
// and more than one for a tuple-keyed table.
type Part struct {
	Attr string
	Keys []string
}

// Attribute constructs a field-access Part.
func Attribute(name string) Part { return Part{Attr: name} }

// Item constructs a table-key-access Part. Pass one key for a single-enum
// table, or several for a tuple-keyed table.
func Item(keys ...string) Part { return Part{Keys: append([]string(nil), keys...)} }

// IsAttribute reports whether p is an attribute access.
func (p Part) IsAttribute() bool { return p.Keys == nil }

// IsItem reports whether p is an item access.
func (p Part) IsItem() bool { return p.Keys != nil }

func (p Part) String() string {
	if p.IsAttribute() {
		return "." + p.Attr
	}
	keys := make([]string, len(p.Keys))
	for i, k := range p.Keys {
		keys[i] = strings.TrimSpace(k)
	}
	return "[" + strings.Join(keys, ", ") + "]"
}

// Equal reports whether p and other address the same step.
func (p Part) Equal(other Part) bool {
	if p.IsAttribute() != other.IsAttribute() {
		return false
	}
	if p.IsAttribute() {
		return p.Attr == other.Attr
	}
	if len(p.Keys) != len(other.Keys) {
		return false
	}
	for i := range p.Keys {
		if p.Keys[i] != other.Keys[i] {
			return false
		}
	}
	return true
}

// A Path is a root sigil plus an ordered sequence of Parts.
type Path struct {
	Kind Kind
	// Name is the calc/verif name for Kind==Calc/Verif; empty for Model.
	Name  string
	Parts []Part
}

// Root constructs the empty ("$") ModelPath.
func Root() Path { return Path{Kind: Model} }

// CalcRoot constructs the empty ("@name") CalcPath for the named calc.
func CalcRoot(name string) Path { return Path{Kind: Calc, Name: name} }

// VerifRoot constructs the ("?name") VerifPath for the named verif.
func VerifRoot(name string) Path { return Path{Kind: Verif, Name: name} }

// WithParts returns a copy of p with extra appended to its existing Parts.
// For a VerifPath, extra must be empty.
func (p Path) WithParts(extra ...Part) Path {
	cp := p
	cp.Parts = append(append([]Part(nil), p.Parts...), extra...)
	return cp
}

func (p Path) String() string {
	var b strings.Builder
	switch p.Kind {
	case Model:
		b.WriteString("$")
	case Calc:
		b.WriteString("@")
		b.WriteString(p.Name)
	case Verif:
		b.WriteString("?")
		b.WriteString(p.Name)
	}
	for _, part := range p.Parts {
		b.WriteString(part.String())
	}
	return b.String()
}

// Parse parses a path string per the grammar in spec.md §4.1:
//
//	Path   := Root (Attr | Item)*
//	Root   := "$" | "@" Ident | "?" Ident
//	Attr   := "." Ident
//	Item   := "[" Key ("," Key)* "]"
func Parse(s string) (Path, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, verrors.New(verrors.PathSyntax, "empty path")
	}

	rootLen := len(s)
	for _, sep := range []byte{'.', '['} {
		if idx := strings.IndexByte(s, sep); idx >= 0 && idx < rootLen {
			rootLen = idx
		}
	}
	root := s[:rootLen]
	rest := s[rootLen:]

	var p Path
	switch {
	case root == "$":
		p.Kind = Model
	case strings.HasPrefix(root, "@"):
		p.Kind = Calc
		p.Name = root[1:]
	case strings.HasPrefix(root, "?"):
		p.Kind = Verif
		p.Name = root[1:]
	default:
		return Path{}, verrors.New(verrors.PathSyntax, "unknown root sigil in %q", raw)
	}
	if (p.Kind == Calc || p.Kind == Verif) && p.Name == "" {
		return Path{}, verrors.New(verrors.PathSyntax, "missing name after root sigil in %q", raw)
	}

	parts, err := parseParts(rest)
	if err != nil {
		return Path{}, verrors.Wrap(verrors.PathSyntax, err, "invalid path %q", raw)
	}
	p.Parts = parts

	if p.Kind == Model && root != "$" {
		return Path{}, verrors.New(verrors.PathSyntax, "ModelPath root must be %q, got %q", "$", root)
	}
	if p.Kind == Verif && len(p.Parts) > 0 {
		return Path{}, verrors.New(verrors.PathSyntax, "VerifPath %q must not have parts", raw)
	}
	return p, nil
}

func parseParts(s string) ([]Part, error) {
	var parts []Part
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' {
				i++
			}
			name := s[start:i]
			if name == "" {
				return nil, verrors.New(verrors.PathSyntax, "empty attribute name at position %d", start)
			}
			parts = append(parts, Attribute(name))
		case '[':
			i++
			start := i
			for i < len(s) && s[i] != ']' {
				i++
			}
			if i >= len(s) {
				return nil, verrors.New(verrors.PathSyntax, "unclosed '[' at position %d", start-1)
			}
			keyStr := s[start:i]
			i++ // consume ']'
			var keys []string
			for _, k := range strings.Split(keyStr, ",") {
				keys = append(keys, strings.TrimSpace(k))
			}
			parts = append(parts, Item(keys...))
		default:
			return nil, verrors.New(verrors.PathSyntax, "unexpected character %q at position %d", s[i], i)
		}
	}
	return parts, nil
}

// A ProjectPath is the canonical global coordinate: a scope name paired
// with a Path. Two ProjectPaths are equal iff their scope and path are
// equal (compared via Equal, since Path embeds a slice and so is not
// usable with ==).
type ProjectPath struct {
	Scope string
	Path  Path
}

// New constructs a ProjectPath.
func New(scope string, p Path) ProjectPath { return ProjectPath{Scope: scope, Path: p} }

func (pp ProjectPath) String() string {
	return pp.Scope + "::" + pp.Path.String()
}

// WithParts returns a copy of pp with extra appended to its Path's Parts.
func (pp ProjectPath) WithParts(extra ...Part) ProjectPath {
	return ProjectPath{Scope: pp.Scope, Path: pp.Path.WithParts(extra...)}
}

// Equal reports whether pp and other denote the same coordinate.
func (pp ProjectPath) Equal(other ProjectPath) bool {
	return pp.String() == other.String()
}

// A Reference is an authorial annotation attached to a calc/verif
// parameter: a raw path string plus an optional explicit scope. It
// resolves to a ProjectPath against the owning calc/verif's default scope.
type Reference struct {
	RawPath string
	Scope   string // empty means "use the owner's default scope"
}

// Ref constructs a Reference. scope is optional; pass at most one value to
// target an imported scope explicitly.
func Ref(rawPath string, scope ...string) Reference {
	r := Reference{RawPath: rawPath}
	if len(scope) > 0 {
		r.Scope = scope[0]
	}
	return r
}

// Resolve parses r.RawPath and pairs it with r.Scope (falling back to
// defaultScope when r.Scope is empty), producing the ProjectPath the
// reference addresses.
func (r Reference) Resolve(defaultScope string) (ProjectPath, error) {
	p, err := Parse(r.RawPath)
	if err != nil {
		return ProjectPath{}, err
	}
	scope := r.Scope
	if scope == "" {
		scope = defaultScope
	}
	return New(scope, p), nil
}

// EffectiveScope reports the scope this reference resolves against, given
// the owner's default scope.
func (r Reference) EffectiveScope(defaultScope string) string {
	if r.Scope == "" {
		return defaultScope
	}
	return r.Scope
}
