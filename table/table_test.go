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

package table_test

import (
	"sort"
	"testing"

	"github.com/go-quicktest/qt"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/table"
)

// Option is the stand-in for the original's StrEnum: a closed two-variant
// domain, matching spec.md §8's worked Table enumeration scenario.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
)

func (Option) EnumVariants() []string { return []string{string(OptionA), string(OptionB)} }

func TestNewRejectsEmpty(t *testing.T) {
	_, err := table.New(map[Option]float64{})
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.Table)))
}

func TestNewRejectsMissingKey(t *testing.T) {
	_, err := table.New(map[Option]float64{OptionA: 1.0})
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.Table)))
}

func TestNewRejectsExtraKey(t *testing.T) {
	_, err := table.New(map[Option]float64{OptionA: 1.0, OptionB: 2.0, Option("C"): 3.0})
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.Table)))
}

func TestNewAcceptsExactDomain(t *testing.T) {
	tbl, err := table.New(map[Option]float64{OptionA: 3.14, OptionB: 2.71})
	qt.Assert(t, qt.IsNil(err))
	v, ok := tbl.Get(OptionA)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 3.14))
}

func TestExpectedKeyTuples(t *testing.T) {
	tbl, err := table.New(map[Option]float64{OptionA: 1, OptionB: 2})
	qt.Assert(t, qt.IsNil(err))
	tuples := tbl.ExpectedKeyTuples()
	var flat []string
	for _, tup := range tuples {
		qt.Assert(t, qt.HasLen(tup, 1))
		flat = append(flat, tup[0])
	}
	sort.Strings(flat)
	qt.Assert(t, qt.DeepEquals(flat, []string{"A", "B"}))
}

func TestTable2Construction(t *testing.T) {
	vals := map[table.Pair[Option, Option]]float64{
		{First: OptionA, Second: OptionA}: 1,
		{First: OptionA, Second: OptionB}: 2,
		{First: OptionB, Second: OptionA}: 3,
		{First: OptionB, Second: OptionB}: 4,
	}
	tbl, err := table.New2(vals)
	qt.Assert(t, qt.IsNil(err))
	v, ok := tbl.Get(OptionA, OptionB)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 2.0))

	tuples := tbl.ExpectedKeyTuples()
	qt.Assert(t, qt.HasLen(tuples, 4))
}

func TestTable2RejectsPartialDomain(t *testing.T) {
	vals := map[table.Pair[Option, Option]]float64{
		{First: OptionA, Second: OptionA}: 1,
	}
	_, err := table.New2(vals)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.Table)))
}
