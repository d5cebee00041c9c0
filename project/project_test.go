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

package project_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	verrors "github.com/shunichironomura/veriq/errors"
	"github.com/shunichironomura/veriq/path"
	"github.com/shunichironomura/veriq/project"
	"github.com/shunichironomura/veriq/table"
)

type powerModel struct {
	Load float64 `veriq:"load"`
}

type thermalModel struct {
	Area float64 `veriq:"area"`
}

type option string

const (
	optionSunlit  option = "sunlit"
	optionEclipse option = "eclipse"
)

func (option) EnumVariants() []string { return []string{string(optionSunlit), string(optionEclipse)} }

func buildProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New()

	power, err := p.AddScope("power")
	qt.Assert(t, qt.IsNil(err))
	power.RootModel(powerModel{})

	thermal, err := p.AddScope("thermal")
	qt.Assert(t, qt.IsNil(err))
	thermal.RootModel(thermalModel{})

	_, err = thermal.Calculation("solar_heat", []string{"power"}, func(load float64) (float64, error) {
		return load * 2, nil
	}, project.In("load", path.Ref("$.load", "power")))
	qt.Assert(t, qt.IsNil(err))

	_, err = thermal.Verification("hot_enough", nil, func(heat float64) (bool, error) {
		return heat > 0, nil
	}, project.In("heat", path.Ref("@solar_heat")))
	qt.Assert(t, qt.IsNil(err))

	return p
}

func TestCalculationResolvesReferences(t *testing.T) {
	p := buildProject(t)
	thermal, ok := p.Scope("thermal")
	qt.Assert(t, qt.IsTrue(ok))

	calc, ok := thermal.Calc("solar_heat")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(calc.Resolved["load"].String(), "power::$.load"))
}

func TestCalculationRejectsUnimportedScope(t *testing.T) {
	p := project.New()
	power, err := p.AddScope("power")
	qt.Assert(t, qt.IsNil(err))
	power.RootModel(powerModel{})

	thermal, err := p.AddScope("thermal")
	qt.Assert(t, qt.IsNil(err))
	thermal.RootModel(thermalModel{})

	_, err = thermal.Calculation("solar_heat", nil, func(load float64) (float64, error) {
		return load, nil
	}, project.In("load", path.Ref("$.load", "power")))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.ScopeNotImported)))
}

func TestCalculationRejectsArityMismatch(t *testing.T) {
	p := project.New()
	thermal, err := p.AddScope("thermal")
	qt.Assert(t, qt.IsNil(err))
	thermal.RootModel(thermalModel{})

	_, err = thermal.Calculation("bad", nil, func(a, b float64) (float64, error) {
		return a + b, nil
	}, project.In("a", path.Ref("$.area")))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.MissingRef)))
}

func TestCalculationRejectsBadReturnShape(t *testing.T) {
	p := project.New()
	thermal, err := p.AddScope("thermal")
	qt.Assert(t, qt.IsNil(err))
	thermal.RootModel(thermalModel{})

	_, err = thermal.Calculation("bad", nil, func(a float64) float64 {
		return a
	}, project.In("a", path.Ref("$.area")))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.MissingReturn)))
}

func TestVerificationRejectsNonBoolReturn(t *testing.T) {
	p := project.New()
	thermal, err := p.AddScope("thermal")
	qt.Assert(t, qt.IsNil(err))
	thermal.RootModel(thermalModel{})

	_, err = thermal.Verification("bad", nil, func(a float64) (float64, error) {
		return a, nil
	}, project.In("a", path.Ref("$.area")))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.TypeMismatch)))
}

func TestDuplicateCalcName(t *testing.T) {
	p := buildProject(t)
	thermal, _ := p.Scope("thermal")
	_, err := thermal.Calculation("solar_heat", []string{"power"}, func(load float64) (float64, error) {
		return load, nil
	}, project.In("load", path.Ref("$.load", "power")))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.DuplicateName)))
}

func TestGetTypeModelPath(t *testing.T) {
	p := buildProject(t)
	typ, err := p.GetType(path.New("power", path.Root().WithParts(path.Attribute("load"))))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(typ.Kind().String(), "float64"))
}

func TestGetTypeCalcPath(t *testing.T) {
	p := buildProject(t)
	typ, err := p.GetType(path.New("thermal", path.CalcRoot("solar_heat")))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(typ.Kind().String(), "float64"))
}

func TestGetTypeVerifPathIsBool(t *testing.T) {
	p := buildProject(t)
	typ, err := p.GetType(path.New("thermal", path.VerifRoot("hot_enough")))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(typ.Kind().String(), "bool"))
}

type tableModel struct {
	Readings *table.Table[option, float64] `veriq:"readings"`
}

func TestGetTypeItemAccessOnTable(t *testing.T) {
	p := project.New()
	s, err := p.AddScope("s")
	qt.Assert(t, qt.IsNil(err))
	s.RootModel(tableModel{})

	typ, err := p.GetType(path.New("s", path.Root().WithParts(path.Attribute("readings"), path.Item(string(optionSunlit)))))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(typ.Kind().String(), "float64"))
}

func TestGetTypeUnresolvedScope(t *testing.T) {
	p := buildProject(t)
	_, err := p.GetType(path.New("missing", path.Root()))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.IsTrue(verrors.Is(err, verrors.Unresolved)))
}
